package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// BalanceRepository manages the user balance and its append-only ledger.
// Every mutation is a single transaction pairing the balance change with a
// ledger entry; debit and refund are conditional so an order can never be
// debited or refunded twice.
type BalanceRepository interface {
	// DebitForOrder atomically subtracts amount when balance >= amount and
	// appends a deduction entry. Returns ErrInsufficientBalance without side
	// effects otherwise. Equality passes.
	DebitForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error)
	// RefundForOrder reverses a prior debit exactly once per order.
	RefundForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error)
	// CreditTopup adds gateway-confirmed funds with a topup entry.
	CreditTopup(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	LedgerByUser(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
	LedgerByOrder(ctx context.Context, orderID string) ([]model.LedgerEntry, error)
}
