package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyStopsAfterMaxAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Backoff: []time.Duration{time.Millisecond}}
	calls := 0
	boom := errors.New("boom")

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	}, nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestPolicySucceedsMidway(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Backoff: []time.Duration{time.Millisecond}}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestPolicyRespectsRetryablePredicate(t *testing.T) {
	policy := Policy{MaxAttempts: 5, Backoff: []time.Duration{time.Millisecond}}
	fatal := errors.New("fatal")
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return fatal
	}, func(err error) bool { return !errors.Is(err, fatal) })

	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt for non-retryable error, got %d", calls)
	}
}

func TestPolicyStopsOnContextCancel(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Backoff: []time.Duration{time.Minute}}
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	calls := 0

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func(context.Context) error {
		calls++
		return boom
	}, nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected last attempt error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt before cancellation, got %d", calls)
	}
}

func TestPolicyZeroAttemptsStillRunsOnce(t *testing.T) {
	policy := Policy{}
	calls := 0
	if err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one attempt, got %d", calls)
	}
}
