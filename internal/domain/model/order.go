package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes order lifecycle. Transitions are monotonic: an order
// never returns to pending once it has left it.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

// PaymentMethod is chosen once at checkout and never changes.
type PaymentMethod string

const (
	PaymentCoin PaymentMethod = "coin"
	PaymentUPI  PaymentMethod = "upi"
)

// Order describes one purchase attempt. Cost and the destination account
// fields are immutable once the order is created; UTR is set at most once by
// the gateway callback, Fulfilled/FulfilledAt exactly once on successful
// provider fulfillment.
type Order struct {
	ID              string
	UserID          int64
	ProductID       int64
	Item            string
	GameUserID      string
	ZoneID          string
	GameUsername    string
	Payment         PaymentMethod
	Cost            decimal.Decimal
	Status          OrderStatus
	Provider        ProviderKind
	UTR             *string
	Fulfilled       bool
	FulfilledAt     *time.Time
	ExternalOrderID *string
	FailureReason   *string
	PaymentURL      *string
	Topup           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Settled reports whether the payment side of the order has been covered:
// debited for coin orders, gateway-confirmed (UTR present) for UPI.
func (o *Order) Settled() bool {
	if o.Payment == PaymentCoin {
		return true
	}
	return o.UTR != nil
}
