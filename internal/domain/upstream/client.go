package upstream

import (
	"context"

	"github.com/srezka/kassa-api/internal/domain/entity"
)

// SalePayload is the body of a sale submission. Items hold goods lines only;
// the store API serializer has no slot for discount or service lines, so the
// total is the full receipt amount while items cover just the stocked goods.
type SalePayload struct {
	Total       string            `json:"total"`
	PaymentType string            `json:"payment_type"`
	Items       []SalePayloadItem `json:"items"`
}

type SalePayloadItem struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    string  `json:"total"`
}

// SaleResult is whatever subset of the created sale the store API echoes
// back. Every field is optional; the receipt builder fills the gaps locally.
type SaleResult struct {
	ID          *int64  `json:"id,omitempty"`
	Date        *string `json:"date,omitempty"`
	PaymentType *string `json:"payment_type,omitempty"`
}

// StockInput is a stock row sent to the store API on create/update. Code is
// carried as an array because that is the form the backend requires.
type StockInput struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	Price         float64  `json:"price"`
	PriceSeller   float64  `json:"price_seller"`
	Unit          string   `json:"unit"`
	FixedQuantity int      `json:"fixed_quantity"`
	Category      int64    `json:"category"`
	Code          []string `json:"code"`
}

// CatalogClient reads categories and stock positions from the store API.
type CatalogClient interface {
	Categories(ctx context.Context) ([]entity.Category, error)
	Stocks(ctx context.Context) ([]entity.Product, error)
}

// StockClient writes stock positions to the store API.
type StockClient interface {
	CreateStocks(ctx context.Context, rows []StockInput) error
	UpdateStock(ctx context.Context, id int64, row StockInput) error
	DeleteStock(ctx context.Context, id int64) error
}

// SalesClient submits and lists sales on the store API.
type SalesClient interface {
	CreateSale(ctx context.Context, payload SalePayload) (*SaleResult, error)
	Sales(ctx context.Context) ([]entity.Sale, error)
}

// TransactionsClient reads the expense summary used by the finance report.
type TransactionsClient interface {
	ExpenseSummary(ctx context.Context) (*entity.ExpenseSummary, error)
}
