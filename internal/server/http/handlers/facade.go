package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CatalogFacade exposes the product catalog.
type CatalogFacade interface {
	Products(ctx context.Context, game string) ([]model.Product, error)
	Product(ctx context.Context, sku string) (*model.Product, error)
}

// LookupFacade resolves in-game usernames before checkout.
type LookupFacade interface {
	LookupAccount(ctx context.Context, game, gameUserID, zoneID string) (string, error)
}

// CheckoutFacade starts purchases and wallet top-ups.
type CheckoutFacade interface {
	Checkout(ctx context.Context, in model.CheckoutInput) (*model.Order, error)
	Topup(ctx context.Context, userID int64, amount decimal.Decimal, requestID string) (*model.Order, error)
}

// OrderFacade encapsulates order reads exposed via HTTP.
type OrderFacade interface {
	Order(ctx context.Context, userID int64, orderID string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	RefreshOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error)
}

// BalanceFacade provides wallet related operations.
type BalanceFacade interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	Ledger(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

// PaymentFacade settles orders from gateway callbacks.
type PaymentFacade interface {
	ConfirmPayment(ctx context.Context, orderID, utr string) (*model.Order, error)
	FailPayment(ctx context.Context, orderID, reason string) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	LookupFacade
	CheckoutFacade
	OrderFacade
	BalanceFacade
	PaymentFacade
}
