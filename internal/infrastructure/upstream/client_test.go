package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srezka/kassa-api/internal/config"
	domainUpstream "github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/pkg/apperror"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}), srv
}

func TestStocksNormalization(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients/stocks/", r.URL.Path)
		w.Write([]byte(`[
			{"id": 1, "name": "Розы", "price": "100.00", "price_seller": "60.00",
			 "quantity": "5.00", "fixed_quantity": 10, "unit": "шт",
			 "category": {"id": 3, "name": "Цветы"},
			 "code": ["RK-1", " RK-2 ", ""]},
			{"id": 2, "name": "Тюльпаны", "price": 50, "price_seller": 30,
			 "quantity": 8, "fixed_quantity": "8",
			 "code": "TLP-1, TLP-2"},
			{"id": 3, "name": "Лента", "price": "15.00",
			 "quantity": "30", "code": 42}
		]`))
	}))

	products, err := client.Stocks(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	roses := products[0]
	assert.Equal(t, int64(1), roses.ID)
	assert.True(t, roses.Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 5, roses.Stock)
	assert.Equal(t, 10, roses.FixedQuantity)
	assert.Equal(t, int64(3), roses.CategoryID)
	assert.Equal(t, "Цветы", roses.CategoryName)
	assert.Equal(t, []string{"RK-1", "RK-2"}, roses.Codes)

	// Comma-separated string shape.
	assert.Equal(t, []string{"TLP-1", "TLP-2"}, products[1].Codes)

	// Unknown code shape degrades to no codes, not an error.
	assert.Empty(t, products[2].Codes)
}

func TestStocksMalformedPayload(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail": "throttled"}`))
	}))

	products, err := client.Stocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCategoriesUpstreamError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "database on fire"}`))
	}))

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Contains(t, appErr.Message, "status 500")
	assert.Contains(t, appErr.Message, "database on fire")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(&config.UpstreamConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.Categories(context.Background())
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Contains(t, appErr.Message, "unreachable")
}

func TestCreateSale(t *testing.T) {
	t.Run("posts the payload and decodes the echo", func(t *testing.T) {
		var got map[string]interface{}
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/clients/sales/", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 77, "date": "2025-03-01T10:30:00Z", "payment_type": "card"}`))
		}))

		payload := domainUpstream.SalePayload{
			Total:       "230.00",
			PaymentType: "cash",
			Items: []domainUpstream.SalePayloadItem{
				{Code: "RK-1", Name: "Розы", Price: 100, Quantity: 2, Total: "200.00"},
			},
		}
		result, err := client.CreateSale(context.Background(), payload)
		require.NoError(t, err)

		assert.Equal(t, "230.00", got["total"])
		assert.Equal(t, "cash", got["payment_type"])
		items := got["items"].([]interface{})
		require.Len(t, items, 1)

		require.NotNil(t, result.ID)
		assert.Equal(t, int64(77), *result.ID)
		require.NotNil(t, result.PaymentType)
		assert.Equal(t, "card", *result.PaymentType)
	})

	t.Run("2xx with undecodable body still succeeds", func(t *testing.T) {
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`ok`))
		}))

		result, err := client.CreateSale(context.Background(), domainUpstream.SalePayload{})
		require.NoError(t, err)
		assert.Nil(t, result.ID)
		assert.Nil(t, result.Date)
	})

	t.Run("non-2xx surfaces the backend body", func(t *testing.T) {
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "insufficient stock"}`))
		}))

		_, err := client.CreateSale(context.Background(), domainUpstream.SalePayload{})
		require.Error(t, err)
		assert.Contains(t, apperror.GetAppError(err).Message, "insufficient stock")
	})
}

func TestSalesDateParsing(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "date": "2025-06-10T14:00:00Z", "payment_type": "cash", "total": "330.00",
			 "items": [{"code": "RK-1", "name": "Розы", "price": "100.00", "quantity": "2", "total": "200.00"}]},
			{"id": 2, "date": "2025-06-11T09:15:30", "total": 50},
			{"id": 3, "date": "2025-06-12", "total": 10},
			{"id": 4, "date": "not a date", "total": 10}
		]`))
	}))

	sales, err := client.Sales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 4)

	assert.Equal(t, time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC), sales[0].Date)
	require.Len(t, sales[0].Items, 1)
	assert.Equal(t, 2, sales[0].Items[0].Quantity)
	assert.True(t, sales[0].Items[0].Price.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, 11, sales[1].Date.Day())
	assert.Equal(t, 12, sales[2].Date.Day())
	assert.True(t, sales[3].Date.IsZero())
}

func TestExpenseSummary(t *testing.T) {
	t.Run("decodes figures", func(t *testing.T) {
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/clients/transactions/summary/", r.URL.Path)
			w.Write([]byte(`{"daily_expense": "500.00", "monthly_expense": "12000.00"}`))
		}))

		summary, err := client.ExpenseSummary(context.Background())
		require.NoError(t, err)
		assert.True(t, summary.DailyExpense.Equal(decimal.NewFromInt(500)))
		assert.True(t, summary.MonthlyExpense.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("malformed body degrades to zeros", func(t *testing.T) {
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))

		summary, err := client.ExpenseSummary(context.Background())
		require.NoError(t, err)
		assert.True(t, summary.DailyExpense.IsZero())
	})
}

func TestStockWrites(t *testing.T) {
	t.Run("create posts row by row and stops at first failure", func(t *testing.T) {
		var paths []string
		calls := 0
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			paths = append(paths, r.Method+" "+r.URL.Path)
			if calls == 2 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"detail": "bad row"}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))

		rows := []domainUpstream.StockInput{
			{Name: "Розы", Code: []string{"RK-9"}},
			{Name: "Тюльпаны", Code: []string{"TLP-9"}},
			{Name: "Лента", Code: []string{"LNT-9"}},
		}
		err := client.CreateStocks(context.Background(), rows)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Тюльпаны")
		assert.Equal(t, 2, calls)
		assert.Equal(t, "POST /clients/stocks/", paths[0])
	})

	t.Run("update and delete target the row path", func(t *testing.T) {
		var got []string
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = append(got, r.Method+" "+r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		require.NoError(t, client.UpdateStock(context.Background(), 42, domainUpstream.StockInput{Name: "Розы"}))
		require.NoError(t, client.DeleteStock(context.Background(), 42))
		assert.Equal(t, []string{"PUT /clients/stocks/42/", "DELETE /clients/stocks/42/"}, got)
	})
}
