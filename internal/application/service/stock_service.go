package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/pkg/apperror"
	"github.com/srezka/kassa-api/pkg/skugen"
)

const defaultUnit = "шт"

// StockService creates and maintains stock rows on the store API. New rows
// get a generated SKU code, unique against every code already upstream and
// against the rest of the batch.
type StockService struct {
	client  upstream.StockClient
	catalog *CatalogService
	log     *logrus.Entry
}

// NewStockService creates a new stock service
func NewStockService(client upstream.StockClient, catalog *CatalogService) *StockService {
	return &StockService{
		client:  client,
		catalog: catalog,
		log:     logrus.WithField("component", "stocks"),
	}
}

// StockRowInput is one row of a stock create/update form.
type StockRowInput struct {
	Name          string
	Quantity      int
	Price         decimal.Decimal
	PriceSeller   decimal.Decimal
	Unit          string
	FixedQuantity int
	CategoryID    int64
}

// StockSummary aggregates the filtered stock table footer.
type StockSummary struct {
	Positions       int             `json:"positions"`
	TotalAdded      int             `json:"total_added"`
	TotalLeft       int             `json:"total_left"`
	TotalBuyAmount  decimal.Decimal `json:"total_buy_amount"`
	TotalSellAmount decimal.Decimal `json:"total_sell_amount"`
}

// CreateBatch validates the rows, assigns generated codes and pushes them
// upstream, then refreshes the catalog so the new positions are sellable.
func (s *StockService) CreateBatch(ctx context.Context, rows []StockRowInput) error {
	if len(rows) == 0 {
		return apperror.NewBadRequestError("No stock rows supplied")
	}

	var fieldErrors []apperror.FieldError
	for i, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("rows[%d].name", i),
				Message: "name is required",
			})
		}
		if row.Quantity < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("rows[%d].quantity", i),
				Message: "quantity must not be negative",
			})
		}
		if row.Price.IsNegative() || row.PriceSeller.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("rows[%d].price", i),
				Message: "prices must not be negative",
			})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	taken := s.catalog.ExistingCodes()
	inputs := make([]upstream.StockInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, s.normalize(row, taken))
	}

	if err := s.client.CreateStocks(ctx, inputs); err != nil {
		return err
	}

	if err := s.catalog.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("catalog refresh after stock create failed")
	}
	return nil
}

// Update replaces a stock row upstream. The code set is preserved by the
// caller passing it through; an empty name is still rejected.
func (s *StockService) Update(ctx context.Context, id int64, row StockRowInput, codes []string) error {
	if strings.TrimSpace(row.Name) == "" {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "name is required"},
		})
	}

	input := s.normalizeBase(row)
	input.Code = codes
	if len(input.Code) == 0 {
		input.Code = []string{skugen.Unique(row.Name, s.catalog.ExistingCodes())}
	}

	if err := s.client.UpdateStock(ctx, id, input); err != nil {
		return err
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("catalog refresh after stock update failed")
	}
	return nil
}

// Delete removes a stock row upstream.
func (s *StockService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteStock(ctx, id); err != nil {
		return err
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("catalog refresh after stock delete failed")
	}
	return nil
}

// Summary folds the cached catalog (optionally one category) into the stock
// table footer totals.
func (s *StockService) Summary(categoryID int64) StockSummary {
	summary := StockSummary{
		TotalBuyAmount:  decimal.Zero,
		TotalSellAmount: decimal.Zero,
	}
	for _, p := range s.catalog.Products("", "") {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		fixed := decimal.NewFromInt(int64(p.FixedQuantity))
		summary.Positions++
		summary.TotalAdded += p.FixedQuantity
		summary.TotalLeft += p.Stock
		summary.TotalBuyAmount = summary.TotalBuyAmount.Add(p.PriceSeller.Mul(fixed))
		summary.TotalSellAmount = summary.TotalSellAmount.Add(p.Price.Mul(fixed))
	}
	return summary
}

func (s *StockService) normalize(row StockRowInput, taken map[string]struct{}) upstream.StockInput {
	input := s.normalizeBase(row)
	input.Code = []string{skugen.Unique(row.Name, taken)}
	return input
}

func (s *StockService) normalizeBase(row StockRowInput) upstream.StockInput {
	unit := row.Unit
	if unit == "" {
		unit = defaultUnit
	}
	fixed := row.FixedQuantity
	if fixed == 0 {
		fixed = row.Quantity
	}
	return upstream.StockInput{
		Name:          strings.TrimSpace(row.Name),
		Quantity:      row.Quantity,
		Price:         row.Price.InexactFloat64(),
		PriceSeller:   row.PriceSeller.InexactFloat64(),
		Unit:          unit,
		FixedQuantity: fixed,
		Category:      row.CategoryID,
	}
}
