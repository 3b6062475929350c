package repository

import (
	"context"
	"time"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. All status
// transitions are guarded: terminal orders are never modified, pending is
// never re-entered.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// SetPaymentURL records the gateway payment URL on a pending UPI order.
	SetPaymentURL(ctx context.Context, id, paymentURL string) error
	// MarkProcessing moves pending -> processing and records the UTR once.
	MarkProcessing(ctx context.Context, id, utr string) error
	// MarkCompleted finalizes a fulfilled order with the provider reference.
	MarkCompleted(ctx context.Context, id, externalOrderID string, fulfilledAt time.Time) error
	// MarkFailed finalizes an order with a failure reason.
	MarkFailed(ctx context.Context, id, reason string) error

	// SelectBatchForReconciliation picks non-terminal orders older than
	// minAge for the background reconciler, locking them against concurrent
	// pickers.
	SelectBatchForReconciliation(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error)
}
