package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrProviderRejected    = errors.New("provider rejected order")
	ErrProviderUnreachable = errors.New("provider unreachable")
	ErrGatewayTimeout      = errors.New("payment gateway timeout")
	ErrDuplicateRequest    = errors.New("duplicate request")
	ErrOrderTerminal       = errors.New("order already in terminal state")
	ErrProductInactive     = errors.New("product not available")
)
