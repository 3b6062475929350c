package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies a balance mutation.
type LedgerEntryType string

const (
	LedgerDeduction LedgerEntryType = "deduction"
	LedgerRefund    LedgerEntryType = "refund"
	LedgerTopup     LedgerEntryType = "topup"
)

// LedgerEntry is an append-only record of one balance change. At most one
// deduction and one refund may exist per order, enforced by the storage
// layer.
type LedgerEntry struct {
	ID           int64
	UserID       int64
	OrderID      *string
	Type         LedgerEntryType
	Amount       decimal.Decimal
	Reason       string
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}
