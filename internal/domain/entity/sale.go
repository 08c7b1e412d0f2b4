package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is a line on a completed sale as the store API reports it.
// Discount lines come back with a negative price or the DISCOUNT code,
// service lines with the SERVICE code.
type SaleItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// Sale is a completed sale fetched from the store API for reporting.
type Sale struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	PaymentType string          `json:"payment_type"`
	Total       decimal.Decimal `json:"total"`
	Items       []SaleItem      `json:"items"`
}

// ItemCount sums the quantities across all lines of the sale.
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// ExpenseSummary mirrors the store API transactions summary endpoint.
type ExpenseSummary struct {
	DailyExpense   decimal.Decimal `json:"daily_expense"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
}
