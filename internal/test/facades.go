package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// CatalogFacadeStub serves canned products for HTTP layer tests.
type CatalogFacadeStub struct {
	ProductsFn func(context.Context, string) ([]model.Product, error)
	ProductFn  func(context.Context, string) (*model.Product, error)
}

// Products lists catalog items.
func (s CatalogFacadeStub) Products(ctx context.Context, game string) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, game)
	}
	return nil, nil
}

// Product resolves one catalog item by SKU.
func (s CatalogFacadeStub) Product(ctx context.Context, sku string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, sku)
	}
	return &model.Product{SKU: sku, Active: true}, nil
}

// LookupFacadeStub resolves in-game usernames.
type LookupFacadeStub struct {
	LookupFn func(context.Context, string, string, string) (string, error)
}

// LookupAccount returns the stubbed username.
func (s LookupFacadeStub) LookupAccount(ctx context.Context, game, gameUserID, zoneID string) (string, error) {
	if s.LookupFn != nil {
		return s.LookupFn(ctx, game, gameUserID, zoneID)
	}
	return "playerOne", nil
}

// CheckoutFacadeStub simulates purchase orchestration.
type CheckoutFacadeStub struct {
	CheckoutFn func(context.Context, model.CheckoutInput) (*model.Order, error)
	TopupFn    func(context.Context, int64, decimal.Decimal, string) (*model.Order, error)
}

// Checkout starts a stubbed purchase.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, in model.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	return &model.Order{ID: "MLBB-TEST", UserID: in.UserID, Payment: model.PaymentMethod(in.Payment), Status: model.OrderStatusCompleted}, nil
}

// Topup starts a stubbed wallet top-up.
func (s CheckoutFacadeStub) Topup(ctx context.Context, userID int64, amount decimal.Decimal, requestID string) (*model.Order, error) {
	if s.TopupFn != nil {
		return s.TopupFn(ctx, userID, amount, requestID)
	}
	url := "upi://pay?tid=TOPUP-TEST"
	return &model.Order{ID: "TOPUP-TEST", UserID: userID, Payment: model.PaymentUPI, Cost: amount, Status: model.OrderStatusPending, PaymentURL: &url, Topup: true}, nil
}

// OrderFacadeStub serves order reads.
type OrderFacadeStub struct {
	OrderFn   func(context.Context, int64, string) (*model.Order, error)
	OrdersFn  func(context.Context, int64) ([]model.Order, error)
	RefreshFn func(context.Context, int64, string) (*model.Order, error)
}

// Order returns one order.
func (s OrderFacadeStub) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusPending}, nil
}

// Orders lists user orders.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return nil, nil
}

// RefreshOrder re-checks and returns one order.
func (s OrderFacadeStub) RefreshOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, userID, orderID)
	}
	return s.Order(ctx, userID, orderID)
}

// BalanceFacadeStub serves wallet reads.
type BalanceFacadeStub struct {
	BalanceFn func(context.Context, int64) (decimal.Decimal, error)
	LedgerFn  func(context.Context, int64) ([]model.LedgerEntry, error)
}

// Balance returns the stubbed wallet balance.
func (s BalanceFacadeStub) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, userID)
	}
	return decimal.Zero, nil
}

// Ledger returns stubbed wallet movements.
func (s BalanceFacadeStub) Ledger(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, userID)
	}
	return nil, nil
}

// PaymentFacadeStub settles gateway callbacks.
type PaymentFacadeStub struct {
	ConfirmFn func(context.Context, string, string) (*model.Order, error)
	FailFn    func(context.Context, string, string) error
	Confirmed []string
	Failed    []string
}

// ConfirmPayment records and settles a success callback.
func (s *PaymentFacadeStub) ConfirmPayment(ctx context.Context, orderID, utr string) (*model.Order, error) {
	s.Confirmed = append(s.Confirmed, orderID)
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID, utr)
	}
	return &model.Order{ID: orderID, UTR: &utr, Status: model.OrderStatusCompleted}, nil
}

// FailPayment records a failure callback.
func (s *PaymentFacadeStub) FailPayment(ctx context.Context, orderID, reason string) error {
	s.Failed = append(s.Failed, orderID)
	if s.FailFn != nil {
		return s.FailFn(ctx, orderID, reason)
	}
	return nil
}

// ReconcilerFacadeStub feeds the background worker in tests.
type ReconcilerFacadeStub struct {
	mu          sync.Mutex
	Batch       []model.Order
	BatchErr    error
	ReconcileFn func(model.Order) error
	Reconciled  []string
}

// OrdersForReconciliation returns the canned batch once.
func (s *ReconcilerFacadeStub) OrdersForReconciliation(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BatchErr != nil {
		return nil, s.BatchErr
	}
	batch := s.Batch
	s.Batch = nil
	return batch, nil
}

// ReconcileOrder records the processed order.
func (s *ReconcilerFacadeStub) ReconcileOrder(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	s.Reconciled = append(s.Reconciled, order.ID)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		return s.ReconcileFn(order)
	}
	return nil
}

// ReconciledIDs returns a copy of the processed order ids.
func (s *ReconcilerFacadeStub) ReconciledIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Reconciled...)
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	LookupFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
	BalanceFacadeStub
	*PaymentFacadeStub
}

// NewStoreFacadeStub returns a stub with all parts wired to defaults.
func NewStoreFacadeStub() *StoreFacadeStub {
	return &StoreFacadeStub{PaymentFacadeStub: &PaymentFacadeStub{}}
}
