package request

// StockRowRequest is one row of the add-stock form.
type StockRowRequest struct {
	Name          string  `json:"name" binding:"required"`
	Quantity      int     `json:"quantity" binding:"min=0"`
	Price         float64 `json:"price" binding:"min=0"`
	PriceSeller   float64 `json:"price_seller" binding:"min=0"`
	Unit          string  `json:"unit"`
	FixedQuantity int     `json:"fixed_quantity" binding:"min=0"`
	CategoryID    int64   `json:"category_id"`
}

// CreateStocksRequest creates a batch of stock rows; each gets a generated
// SKU code.
type CreateStocksRequest struct {
	Rows []StockRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// UpdateStockRequest replaces one stock row. Codes pass through unchanged;
// when empty a fresh code is generated.
type UpdateStockRequest struct {
	StockRowRequest
	Codes []string `json:"codes"`
}
