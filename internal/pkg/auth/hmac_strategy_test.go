package auth

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewHMACStrategyTTL(t *testing.T) {
	if got := NewHMACStrategy("secret", Options{}).ttl; got != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", got)
	}
	if got := NewHMACStrategy("secret", Options{TTL: 2 * time.Hour}).ttl; got != 2*time.Hour {
		t.Fatalf("expected custom ttl, got %s", got)
	}
}

func TestHMACStrategyIssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestHMACStrategyRejectsBadTokens(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	future := time.Now().Add(time.Minute).Unix()

	signed := func(payload string) string {
		return payload + "." + strategy.sign(payload)
	}

	valid, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "no separator", token: "garbage"},
		{name: "tampered signature", token: valid + "x"},
		{name: "foreign secret", token: func() string {
			other, _ := NewHMACStrategy("other", Options{TTL: time.Minute}).IssueToken(7)
			return other
		}()},
		{name: "missing expiry", token: signed("7")},
		{name: "non-numeric user id", token: signed(fmt.Sprintf("abc.%d", future))},
		{name: "non-numeric expiry", token: signed("7.soon")},
		{name: "expired", token: signed(fmt.Sprintf("7.%d", time.Now().Add(-time.Minute).Unix()))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := strategy.ParseToken(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategyName(t *testing.T) {
	if name := NewHMACStrategy("secret", Options{}).Name(); name != "hmac" {
		t.Fatalf("unexpected name: %s", name)
	}
}
