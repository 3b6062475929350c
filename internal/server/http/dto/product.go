package dto

import "github.com/mxvel/topupmart/internal/domain/model"

// ProductResponse describes one catalog item. Prices travel as decimal
// strings to keep paisa precision intact.
type ProductResponse struct {
	SKU           string `json:"sku"`
	Game          string `json:"game"`
	Name          string `json:"name"`
	Item          string `json:"item"`
	Price         string `json:"price"`
	ResellerPrice string `json:"reseller_price,omitempty"`
}

// ToProductResponse converts a catalog product into its wire form.
func ToProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		SKU:   p.SKU,
		Game:  p.Game,
		Name:  p.Name,
		Item:  p.Item,
		Price: p.Price.String(),
	}
	if p.ResellerPrice.IsPositive() {
		resp.ResellerPrice = p.ResellerPrice.String()
	}
	return resp
}
