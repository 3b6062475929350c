package retry

import (
	"context"
	"time"
)

// Policy is a bounded retry schedule for transient failures. Backoff holds
// the delay before each re-attempt; when attempts outnumber entries the last
// entry repeats.
type Policy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// Default mirrors the provider call contract: three attempts with
// 1s/2s/3s pauses.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Second, 2 * time.Second, 3 * time.Second},
	}
}

// Do invokes op until it succeeds, the attempt budget is exhausted, the
// error is not retryable, or ctx is done. The last error is returned.
func (p Policy) Do(ctx context.Context, op func(context.Context) error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if waitErr := p.wait(ctx, attempt-1); waitErr != nil {
				return err
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
	}
	return err
}

func (p Policy) wait(ctx context.Context, slot int) error {
	if len(p.Backoff) == 0 {
		return nil
	}
	if slot >= len(p.Backoff) {
		slot = len(p.Backoff) - 1
	}

	timer := time.NewTimer(p.Backoff[slot])
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
