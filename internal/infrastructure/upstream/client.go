package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/config"
	"github.com/srezka/kassa-api/internal/domain/entity"
	domainUpstream "github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/pkg/apperror"
)

const (
	categoriesPath   = "/clients/categories/"
	stocksPath       = "/clients/stocks/"
	salesPath        = "/clients/sales/"
	transactionsPath = "/clients/transactions/summary/"
)

// Client talks to the remote store API. It is the single place that knows the
// upstream wire shapes; everything past it works with normalized entities.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func NewClient(cfg *config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logrus.WithField("component", "upstream"),
	}
}

// codeList accepts the upstream "code" field in either of its historical
// shapes: a JSON array of strings, or a single comma-separated string.
type codeList []string

func (c *codeList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		out := arr[:0]
		for _, s := range arr {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*c = out
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unknown shape: treat as no codes rather than failing the
		// whole catalog load.
		*c = nil
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*c = out
	return nil
}

type categoryRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// stockRecord mirrors one entry of the stocks endpoint. Decimal fields come
// back as quoted strings from the backend serializer; shopspring/decimal
// accepts both quoted and bare numbers.
type stockRecord struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	PriceSeller   decimal.Decimal `json:"price_seller"`
	Quantity      decimal.Decimal `json:"quantity"`
	FixedQuantity decimal.Decimal `json:"fixed_quantity"`
	Unit          string          `json:"unit"`
	Category      *categoryRef    `json:"category"`
	Code          codeList        `json:"code"`
}

type saleItemRecord struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type saleRecord struct {
	ID          int64            `json:"id"`
	Date        string           `json:"date"`
	PaymentType string           `json:"payment_type"`
	Total       decimal.Decimal  `json:"total"`
	Items       []saleItemRecord `json:"items"`
}

type expenseSummaryRecord struct {
	DailyExpense   decimal.Decimal `json:"daily_expense"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) ([]entity.Category, error) {
	body, err := c.get(ctx, categoriesPath)
	if err != nil {
		return nil, err
	}

	var records []categoryRecord
	if !c.decodeList(body, categoriesPath, &records) {
		return []entity.Category{}, nil
	}

	out := make([]entity.Category, 0, len(records))
	for _, r := range records {
		out = append(out, entity.Category{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// Stocks fetches the stock list and normalizes each record into a Product:
// code shapes collapse to one string slice and the remaining quantity becomes
// the stock ceiling.
func (c *Client) Stocks(ctx context.Context) ([]entity.Product, error) {
	body, err := c.get(ctx, stocksPath)
	if err != nil {
		return nil, err
	}

	var records []stockRecord
	if !c.decodeList(body, stocksPath, &records) {
		return []entity.Product{}, nil
	}

	out := make([]entity.Product, 0, len(records))
	for _, r := range records {
		p := entity.Product{
			ID:            r.ID,
			Name:          r.Name,
			Price:         r.Price,
			PriceSeller:   r.PriceSeller,
			Stock:         int(r.Quantity.IntPart()),
			FixedQuantity: int(r.FixedQuantity.IntPart()),
			Unit:          r.Unit,
			Codes:         r.Code,
		}
		if r.Category != nil {
			p.CategoryID = r.Category.ID
			p.CategoryName = r.Category.Name
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateStocks posts new stock rows one by one, stopping at the first
// failure so a partial batch is visible upstream rather than silently lost.
func (c *Client) CreateStocks(ctx context.Context, rows []domainUpstream.StockInput) error {
	for i := range rows {
		if _, err := c.send(ctx, http.MethodPost, stocksPath, rows[i]); err != nil {
			return errors.Wrapf(err, "create stock %q", rows[i].Name)
		}
	}
	return nil
}

func (c *Client) UpdateStock(ctx context.Context, id int64, row domainUpstream.StockInput) error {
	_, err := c.send(ctx, http.MethodPut, fmt.Sprintf("%s%d/", stocksPath, id), row)
	return err
}

func (c *Client) DeleteStock(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", stocksPath, id), nil)
	return err
}

// CreateSale submits a sale and returns whatever fields the backend echoed.
// A 2xx with an undecodable body still counts as success: the receipt builder
// falls back to local values for anything missing.
func (c *Client) CreateSale(ctx context.Context, payload domainUpstream.SalePayload) (*domainUpstream.SaleResult, error) {
	body, err := c.send(ctx, http.MethodPost, salesPath, payload)
	if err != nil {
		return nil, err
	}

	var result domainUpstream.SaleResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.log.WithError(err).Warn("sale created but response body not decodable")
		return &domainUpstream.SaleResult{}, nil
	}
	return &result, nil
}

// Sales fetches the full sale history for reporting.
func (c *Client) Sales(ctx context.Context) ([]entity.Sale, error) {
	body, err := c.get(ctx, salesPath)
	if err != nil {
		return nil, err
	}

	var records []saleRecord
	if !c.decodeList(body, salesPath, &records) {
		return []entity.Sale{}, nil
	}

	out := make([]entity.Sale, 0, len(records))
	for _, r := range records {
		sale := entity.Sale{
			ID:          r.ID,
			PaymentType: r.PaymentType,
			Total:       r.Total,
		}
		if t, err := parseSaleDate(r.Date); err == nil {
			sale.Date = t
		}
		for _, it := range r.Items {
			sale.Items = append(sale.Items, entity.SaleItem{
				Code:     it.Code,
				Name:     it.Name,
				Price:    it.Price,
				Quantity: int(it.Quantity.IntPart()),
				Total:    it.Total,
			})
		}
		out = append(out, sale)
	}
	return out, nil
}

// ExpenseSummary fetches daily/monthly expense figures.
func (c *Client) ExpenseSummary(ctx context.Context) (*entity.ExpenseSummary, error) {
	body, err := c.get(ctx, transactionsPath)
	if err != nil {
		return nil, err
	}

	var record expenseSummaryRecord
	if err := json.Unmarshal(body, &record); err != nil {
		c.log.WithError(err).WithField("path", transactionsPath).Warn("malformed expense summary, using zeros")
		return &entity.ExpenseSummary{}, nil
	}
	return &entity.ExpenseSummary{
		DailyExpense:   record.DailyExpense,
		MonthlyExpense: record.MonthlyExpense,
	}, nil
}

// decodeList unmarshals a JSON array payload. A payload of any other shape is
// logged and reported as empty instead of failing the caller.
func (c *Client) decodeList(body []byte, path string, dst interface{}) bool {
	if err := json.Unmarshal(body, dst); err != nil {
		c.log.WithError(err).WithField("path", path).Warn("malformed list payload, degrading to empty")
		return false
	}
	return true
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, nil)
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Error("store API unreachable")
		return nil, apperror.NewUnreachableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUnreachableError(errors.Wrap(err, "read response body"))
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("store API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.NewUpstreamError(resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func parseSaleDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
