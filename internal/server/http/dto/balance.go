package dto

import (
	"time"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// BalanceResponse reports the current wallet balance as a decimal string.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// LedgerEntryResponse describes one wallet movement.
type LedgerEntryResponse struct {
	OrderID      string    `json:"order_id,omitempty"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	Reason       string    `json:"reason"`
	BalanceAfter string    `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToLedgerEntryResponse converts a ledger entry into its wire form.
func ToLedgerEntryResponse(e model.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		Type:         string(e.Type),
		Amount:       e.Amount.String(),
		Reason:       e.Reason,
		BalanceAfter: e.BalanceAfter.String(),
		CreatedAt:    e.CreatedAt,
	}
	if e.OrderID != nil {
		resp.OrderID = *e.OrderID
	}
	return resp
}
