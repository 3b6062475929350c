package model

import (
	"errors"
	"testing"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
)

func TestCheckoutInputValidate(t *testing.T) {
	valid := CheckoutInput{UserID: 1, SKU: "mlbb-86", GameUserID: "123", Payment: PaymentCoin}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	trimmed := CheckoutInput{UserID: 1, SKU: "  mlbb-86  ", GameUserID: " 123 ", Payment: PaymentUPI}
	if err := trimmed.Validate(); err != nil {
		t.Fatalf("expected trimmed input to validate, got %v", err)
	}
	if trimmed.SKU != "mlbb-86" || trimmed.GameUserID != "123" {
		t.Fatalf("expected fields to be trimmed, got %+v", trimmed)
	}

	invalid := []CheckoutInput{
		{UserID: 1, GameUserID: "123", Payment: PaymentCoin},
		{UserID: 1, SKU: "mlbb-86", Payment: PaymentCoin},
		{UserID: 1, SKU: "mlbb-86", GameUserID: "123"},
		{UserID: 1, SKU: "mlbb-86", GameUserID: "123", Payment: "cash"},
	}
	for _, in := range invalid {
		if err := in.Validate(); !errors.Is(err, domainErrors.ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed for %+v, got %v", in, err)
		}
	}
}
