package entity

import (
	"github.com/shopspring/decimal"
)

// Product is a stock position pulled from the store API. It is read-only for
// the lifetime of a checkout session; the only mutable view is the derived
// "remaining after cart" quantity.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	PriceSeller   decimal.Decimal `json:"price_seller"`
	Stock         int             `json:"stock"`
	FixedQuantity int             `json:"fixed_quantity"`
	Unit          string          `json:"unit"`
	CategoryID    int64           `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Codes         []string        `json:"codes"`
}

// DefaultCode returns the code used when a product is added to the cart
// without an explicit code choice.
func (p *Product) DefaultCode() string {
	if len(p.Codes) > 0 {
		return p.Codes[0]
	}
	return ""
}

// Category is a product grouping from the store API.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
