package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"insufficient balance", ErrInsufficientBalance},
		{"validation failed", ErrValidationFailed},
		{"invalid amount", ErrInvalidAmount},
		{"provider rejected", ErrProviderRejected},
		{"provider unreachable", ErrProviderUnreachable},
		{"gateway timeout", ErrGatewayTimeout},
		{"duplicate request", ErrDuplicateRequest},
		{"order terminal", ErrOrderTerminal},
		{"product inactive", ErrProductInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}
