package usecase

import (
	"context"
	"time"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/domain/repository"
)

// OrderUseCase provides read access to orders with ownership enforcement.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// GetForUser returns the order when it belongs to userID. A foreign order is
// reported as not found rather than forbidden, so order IDs cannot be probed.
func (u *OrderUseCase) GetForUser(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListStuck returns non-terminal orders untouched for at least minAge, for
// the background reconciler.
func (u *OrderUseCase) ListStuck(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error) {
	return u.orders.SelectBatchForReconciliation(ctx, minAge, limit)
}
