package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/adapter/lookup"
	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/usecase"
)

// TopupFacade is the single entry point the HTTP layer and the background
// reconciler talk to. It hides use case composition behind one surface.
type TopupFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	orders   *usecase.OrderUseCase
	balance  *usecase.BalanceUseCase
	checkout *usecase.CheckoutUseCase
	lookup   lookup.Client
}

// NewTopupFacade constructs TopupFacade.
func NewTopupFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	orders *usecase.OrderUseCase,
	balance *usecase.BalanceUseCase,
	checkout *usecase.CheckoutUseCase,
	lookupClient lookup.Client,
) *TopupFacade {
	return &TopupFacade{
		auth:     auth,
		catalog:  catalog,
		orders:   orders,
		balance:  balance,
		checkout: checkout,
		lookup:   lookupClient,
	}
}

func (f *TopupFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *TopupFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *TopupFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *TopupFacade) User(ctx context.Context, userID int64) (*model.User, error) {
	return f.auth.GetByID(ctx, userID)
}

func (f *TopupFacade) Products(ctx context.Context, game string) ([]model.Product, error) {
	return f.catalog.ListActive(ctx, game)
}

func (f *TopupFacade) Product(ctx context.Context, sku string) (*model.Product, error) {
	return f.catalog.GetBySKU(ctx, sku)
}

func (f *TopupFacade) LookupAccount(ctx context.Context, game, gameUserID, zoneID string) (string, error) {
	return f.lookup.Username(ctx, game, gameUserID, zoneID)
}

func (f *TopupFacade) Checkout(ctx context.Context, in model.CheckoutInput) (*model.Order, error) {
	return f.checkout.Checkout(ctx, in)
}

func (f *TopupFacade) Topup(ctx context.Context, userID int64, amount decimal.Decimal, requestID string) (*model.Order, error) {
	return f.checkout.Topup(ctx, userID, amount, requestID)
}

func (f *TopupFacade) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	return f.orders.GetForUser(ctx, userID, orderID)
}

func (f *TopupFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

// RefreshOrder re-checks the gateway for the order on behalf of a status
// poll and returns the current state.
func (f *TopupFacade) RefreshOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := f.orders.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return f.checkout.Refresh(ctx, order)
}

func (f *TopupFacade) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := f.balance.Current(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, err
	}
	return balance, nil
}

func (f *TopupFacade) Ledger(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return f.balance.History(ctx, userID)
}

// ConfirmPayment settles an order after a gateway success callback.
func (f *TopupFacade) ConfirmPayment(ctx context.Context, orderID, utr string) (*model.Order, error) {
	return f.checkout.ConfirmPayment(ctx, orderID, utr)
}

// FailPayment finalizes an order after a gateway failure callback.
func (f *TopupFacade) FailPayment(ctx context.Context, orderID, reason string) error {
	return f.checkout.FailPayment(ctx, orderID, reason)
}

// OrdersForReconciliation picks stuck orders for the background worker.
func (f *TopupFacade) OrdersForReconciliation(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error) {
	return f.orders.ListStuck(ctx, minAge, limit)
}

// ReconcileOrder resolves one stuck order.
func (f *TopupFacade) ReconcileOrder(ctx context.Context, order model.Order) error {
	return f.checkout.Reconcile(ctx, &order)
}
