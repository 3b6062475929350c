package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product describes one purchasable top-up item of a game catalog.
// ProviderCode carries the vendor-specific SKU submitted to the fulfillment
// provider.
type Product struct {
	ID            int64
	SKU           string
	Game          string
	Name          string
	Item          string
	Provider      ProviderKind
	ProviderCode  string
	Price         decimal.Decimal
	ResellerPrice decimal.Decimal
	Active        bool
	CreatedAt     time.Time
}

// PriceFor resolves the role-dependent cost of the product.
func (p *Product) PriceFor(role Role) decimal.Decimal {
	if role == RoleReseller && p.ResellerPrice.IsPositive() {
		return p.ResellerPrice
	}
	return p.Price
}
