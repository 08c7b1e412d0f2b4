package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/pkg/apperror"
)

// Report periods
const (
	PeriodToday  = "today"
	Period7d     = "7d"
	Period30d    = "30d"
	PeriodMonth  = "month"
	PeriodCustom = "custom"
)

// ReportService computes finance/dashboard figures from upstream sales,
// stocks and the expense summary.
type ReportService struct {
	catalog      upstream.CatalogClient
	sales        upstream.SalesClient
	transactions upstream.TransactionsClient
	log          *logrus.Entry
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(catalog upstream.CatalogClient, sales upstream.SalesClient, transactions upstream.TransactionsClient) *ReportService {
	return &ReportService{
		catalog:      catalog,
		sales:        sales,
		transactions: transactions,
		log:          logrus.WithField("component", "reports"),
		now:          time.Now,
	}
}

// ProductProfit is one row of the top-SKU table.
type ProductProfit struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	COGS     decimal.Decimal `json:"cogs"`
	Profit   decimal.Decimal `json:"profit"`
}

// FinanceReport is the unit-economy summary for a period.
type FinanceReport struct {
	From            *time.Time      `json:"from,omitempty"`
	To              *time.Time      `json:"to,omitempty"`
	Orders          int             `json:"orders"`
	ItemsCount      int             `json:"items_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	ServicesRevenue decimal.Decimal `json:"services_revenue"`
	Discounts       decimal.Decimal `json:"discounts"`
	Returns         decimal.Decimal `json:"returns"`
	COGS            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	GrossMargin     float64         `json:"gross_margin"`
	AOV             decimal.Decimal `json:"aov"`
	TopProducts     []ProductProfit `json:"top_products"`
	InventoryCost   decimal.Decimal `json:"inventory_cost"`
	InventoryRetail decimal.Decimal `json:"inventory_retail"`
	DailyExpense    decimal.Decimal `json:"daily_expense"`
	MonthlyExpense  decimal.Decimal `json:"monthly_expense"`
}

// SaleSummary is one row of the sales-per-period table.
type SaleSummary struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	PaymentType string          `json:"payment_type"`
	ItemsCount  int             `json:"items_count"`
	Total       decimal.Decimal `json:"total"`
}

// PeriodBounds resolves a named period into a [from, to] window relative to
// now. Custom periods pass their own bounds through.
func (s *ReportService) PeriodBounds(period string, from, to *time.Time) (*time.Time, *time.Time, error) {
	now := s.now()
	dayStart := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch period {
	case PeriodToday:
		start := dayStart(now)
		end := start.Add(24*time.Hour - time.Nanosecond)
		return &start, &end, nil
	case Period7d:
		start := dayStart(now.AddDate(0, 0, -6))
		return &start, &now, nil
	case Period30d, "":
		start := dayStart(now.AddDate(0, 0, -29))
		return &start, &now, nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, &now, nil
	case PeriodCustom:
		return from, to, nil
	default:
		return nil, nil, apperror.NewBadRequestError("Unknown period: " + period)
	}
}

// Finance builds the finance report for the window.
func (s *ReportService) Finance(ctx context.Context, from, to *time.Time) (*FinanceReport, error) {
	sales, err := s.sales.Sales(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := s.catalog.Stocks(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.transactions.ExpenseSummary(ctx)
	if err != nil {
		return nil, err
	}

	report := &FinanceReport{
		From:            from,
		To:              to,
		Revenue:         decimal.Zero,
		ServicesRevenue: decimal.Zero,
		Discounts:       decimal.Zero,
		Returns:         decimal.Zero,
		COGS:            decimal.Zero,
		AOV:             decimal.Zero,
		InventoryCost:   decimal.Zero,
		InventoryRetail: decimal.Zero,
		DailyExpense:    summary.DailyExpense,
		MonthlyExpense:  summary.MonthlyExpense,
	}

	costByCode := costMap(stocks)
	profitByKey := make(map[string]*ProductProfit)

	for i := range sales {
		sale := &sales[i]
		if !inRange(sale.Date, from, to) {
			continue
		}
		report.Orders++

		for _, it := range sale.Items {
			qty := decimal.NewFromInt(int64(it.Quantity))
			lineSum := it.Price.Mul(qty)

			isDiscount := it.Price.IsNegative() || strings.EqualFold(it.Code, "DISCOUNT")
			isService := strings.EqualFold(it.Code, "SERVICE")

			report.ItemsCount += it.Quantity
			report.Revenue = report.Revenue.Add(lineSum)

			if isDiscount {
				report.Discounts = report.Discounts.Add(lineSum)
			}
			if isService {
				report.ServicesRevenue = report.ServicesRevenue.Add(lineSum)
			}

			// Cost of goods applies to goods lines only.
			if !isDiscount && !isService {
				cost := costByCode[it.Code].Mul(qty)
				report.COGS = report.COGS.Add(cost)

				key := it.Code
				if key == "" {
					key = it.Name
				}
				row, ok := profitByKey[key]
				if !ok {
					row = &ProductProfit{Code: it.Code, Revenue: decimal.Zero, COGS: decimal.Zero, Profit: decimal.Zero}
					profitByKey[key] = row
				}
				row.Name = it.Name
				row.Quantity += it.Quantity
				row.Revenue = row.Revenue.Add(lineSum)
				row.COGS = row.COGS.Add(cost)
				row.Profit = row.Revenue.Sub(row.COGS)
			}

			// Return heuristic: negative quantity, or a negative line
			// sum that is not a discount.
			if it.Quantity < 0 || (lineSum.IsNegative() && !isDiscount) {
				report.Returns = report.Returns.Add(lineSum.Abs())
			}
		}
	}

	report.GrossProfit = report.Revenue.Sub(report.COGS)
	if !report.Revenue.IsZero() {
		report.GrossMargin = report.GrossProfit.Div(report.Revenue).InexactFloat64()
	}
	if report.Orders > 0 {
		report.AOV = report.Revenue.Div(decimal.NewFromInt(int64(report.Orders))).Round(2)
	}

	for i := range stocks {
		qty := decimal.NewFromInt(int64(stocks[i].Stock))
		report.InventoryCost = report.InventoryCost.Add(qty.Mul(stocks[i].PriceSeller))
		report.InventoryRetail = report.InventoryRetail.Add(qty.Mul(stocks[i].Price))
	}

	report.TopProducts = topProducts(profitByKey, 10)
	return report, nil
}

// Sales lists upstream sales within the window, newest kept in API order.
func (s *ReportService) Sales(ctx context.Context, from, to *time.Time) ([]SaleSummary, error) {
	sales, err := s.sales.Sales(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SaleSummary, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		if !inRange(sale.Date, from, to) {
			continue
		}
		out = append(out, SaleSummary{
			ID:          sale.ID,
			Date:        sale.Date,
			PaymentType: sale.PaymentType,
			ItemsCount:  sale.ItemCount(),
			Total:       sale.Total,
		})
	}
	return out, nil
}

// costMap indexes the current seller price by code; when a code repeats, the
// last known cost wins.
func costMap(stocks []entity.Product) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for i := range stocks {
		for _, code := range stocks[i].Codes {
			m[code] = stocks[i].PriceSeller
		}
	}
	return m
}

func topProducts(byKey map[string]*ProductProfit, limit int) []ProductProfit {
	rows := make([]ProductProfit, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Profit.GreaterThan(rows[j].Profit)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func inRange(t time.Time, from, to *time.Time) bool {
	if t.IsZero() {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
