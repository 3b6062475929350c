package usecase

import (
	"context"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/domain/repository"
)

// CatalogUseCase provides read access to the top-up catalog.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// ListActive returns purchasable products, optionally filtered by game.
func (u *CatalogUseCase) ListActive(ctx context.Context, game string) ([]model.Product, error) {
	return u.products.ListActive(ctx, game)
}

// GetBySKU returns one product; inactive products are hidden.
func (u *CatalogUseCase) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	product, err := u.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domainErrors.ErrProductInactive
	}
	return product, nil
}
