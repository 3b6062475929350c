package model

import (
	"strings"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
)

// CheckoutInput is the normalized checkout payload. RequestID is the
// client-supplied idempotency key; empty disables duplicate suppression for
// this request.
type CheckoutInput struct {
	UserID     int64
	SKU        string
	GameUserID string
	ZoneID     string
	Payment    PaymentMethod
	RequestID  string
}

// Validate checks required fields before any side effect happens.
func (in *CheckoutInput) Validate() error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.GameUserID = strings.TrimSpace(in.GameUserID)
	in.ZoneID = strings.TrimSpace(in.ZoneID)

	if in.SKU == "" || in.GameUserID == "" {
		return domainErrors.ErrValidationFailed
	}
	switch in.Payment {
	case PaymentCoin, PaymentUPI:
	default:
		return domainErrors.ErrValidationFailed
	}
	return nil
}
