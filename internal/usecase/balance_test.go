package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	testhelpers "github.com/mxvel/topupmart/internal/test"
)

func TestBalanceCurrent(t *testing.T) {
	balances := testhelpers.NewBalanceRepositoryStub()
	balances.Balances[1] = decimal.NewFromInt(250)
	uc := NewBalanceUseCase(balances)

	balance, err := uc.Current(context.Background(), 1)
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected balance %s", balance)
	}

	if _, err := uc.Current(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBalanceHistory(t *testing.T) {
	balances := testhelpers.NewBalanceRepositoryStub()
	balances.Balances[1] = decimal.NewFromInt(100)
	if _, err := balances.DebitForOrder(context.Background(), 1, "MLBB-AAAA", decimal.NewFromInt(60), "purchase"); err != nil {
		t.Fatalf("debit returned error: %v", err)
	}
	if _, err := balances.RefundForOrder(context.Background(), 1, "MLBB-AAAA", decimal.NewFromInt(60), "provider failure"); err != nil {
		t.Fatalf("refund returned error: %v", err)
	}
	uc := NewBalanceUseCase(balances)

	history, err := uc.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}

	byOrder, err := uc.HistoryByOrder(context.Background(), "MLBB-AAAA")
	if err != nil {
		t.Fatalf("history by order returned error: %v", err)
	}
	if len(byOrder) != 2 || byOrder[0].Type != model.LedgerDeduction || byOrder[1].Type != model.LedgerRefund {
		t.Fatalf("unexpected entries %+v", byOrder)
	}
}
