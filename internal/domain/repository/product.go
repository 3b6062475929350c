package repository

import (
	"context"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// ProductRepository provides read access to the top-up catalog.
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListActive(ctx context.Context, game string) ([]model.Product, error)
}
