package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/domain/repository"
)

// BalanceUseCase exposes the wallet balance and its ledger. All mutations go
// through the checkout flow; this use case is read-only.
type BalanceUseCase struct {
	balances repository.BalanceRepository
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(b repository.BalanceRepository) *BalanceUseCase {
	return &BalanceUseCase{balances: b}
}

// Current returns the user's wallet balance.
func (u *BalanceUseCase) Current(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return u.balances.GetBalance(ctx, userID)
}

// History returns the user's ledger entries, newest first.
func (u *BalanceUseCase) History(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return u.balances.LedgerByUser(ctx, userID)
}

// HistoryByOrder returns the ledger entries attached to one order in
// chronological order.
func (u *BalanceUseCase) HistoryByOrder(ctx context.Context, orderID string) ([]model.LedgerEntry, error) {
	return u.balances.LedgerByOrder(ctx, orderID)
}
