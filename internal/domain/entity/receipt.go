package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/srezka/kassa-api/internal/domain/enum"
)

// ReceiptItem is a snapshot of a cart line at checkout time.
type ReceiptItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Kind     enum.LineKind   `json:"kind"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt is a value object built once per successful sale. It merges the
// server-assigned fields with the full local cart: the store API only persists
// goods lines, so items and total always come from the terminal side.
// Receipts are displayed and discarded; nothing is persisted locally.
type Receipt struct {
	ID          int64            `json:"id"`
	Date        time.Time        `json:"date"`
	PaymentType enum.PaymentType `json:"payment_type"`
	Total       string           `json:"total"`
	Items       []ReceiptItem    `json:"items"`
}
