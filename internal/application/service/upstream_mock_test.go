package service

import (
	"context"

	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/upstream"
)

// mockUpstream implements every upstream client interface for service tests.
type mockUpstream struct {
	categories []entity.Category
	stocks     []entity.Product
	salesList  []entity.Sale
	summary    entity.ExpenseSummary

	saleResult *upstream.SaleResult
	err        error

	salePayloads  []upstream.SalePayload
	createdStocks []upstream.StockInput
	updatedIDs    []int64
	deletedIDs    []int64
}

func (m *mockUpstream) Categories(ctx context.Context) ([]entity.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockUpstream) Stocks(ctx context.Context) ([]entity.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stocks, nil
}

func (m *mockUpstream) CreateStocks(ctx context.Context, rows []upstream.StockInput) error {
	if m.err != nil {
		return m.err
	}
	m.createdStocks = append(m.createdStocks, rows...)
	return nil
}

func (m *mockUpstream) UpdateStock(ctx context.Context, id int64, row upstream.StockInput) error {
	if m.err != nil {
		return m.err
	}
	m.updatedIDs = append(m.updatedIDs, id)
	return nil
}

func (m *mockUpstream) DeleteStock(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockUpstream) CreateSale(ctx context.Context, payload upstream.SalePayload) (*upstream.SaleResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.salePayloads = append(m.salePayloads, payload)
	if m.saleResult != nil {
		return m.saleResult, nil
	}
	return &upstream.SaleResult{}, nil
}

func (m *mockUpstream) Sales(ctx context.Context) ([]entity.Sale, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.salesList, nil
}

func (m *mockUpstream) ExpenseSummary(ctx context.Context) (*entity.ExpenseSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	summary := m.summary
	return &summary, nil
}
