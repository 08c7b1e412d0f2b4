package service

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/pkg/apperror"
)

// CatalogService loads and caches the product catalog from the store API.
// A failed load leaves the catalog empty; every read tolerates that.
type CatalogService struct {
	client upstream.CatalogClient
	log    *logrus.Entry

	mu         sync.RWMutex
	categories []entity.Category
	products   []entity.Product
	loaded     bool
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client upstream.CatalogClient) *CatalogService {
	return &CatalogService{
		client: client,
		log:    logrus.WithField("component", "catalog"),
	}
}

// Load fetches categories and stocks. The two fetches are independent; either
// failing aborts the load and keeps the previous cache untouched. Code-shape
// normalization already happened at the client boundary.
func (s *CatalogService) Load(ctx context.Context) error {
	categories, err := s.client.Categories(ctx)
	if err != nil {
		return err
	}
	products, err := s.client.Stocks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"categories": len(categories),
		"products":   len(products),
	}).Info("catalog loaded")
	return nil
}

// Refresh re-pulls the catalog, typically after a sale or a stock edit.
func (s *CatalogService) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Loaded reports whether a load has ever succeeded.
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Categories returns the cached category list.
func (s *CatalogService) Categories() []entity.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Products returns cached products filtered by category name and by a
// case-insensitive name substring.
func (s *CatalogService) Products(category, search string) []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.CategoryName != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ProductByID looks a product up in the cache.
func (s *CatalogService) ProductByID(id int64) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, apperror.NewNotFoundError("Product")
}

// ExistingCodes collects every code currently assigned upstream, used to keep
// generated SKU codes unique.
func (s *CatalogService) ExistingCodes() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make(map[string]struct{})
	for i := range s.products {
		for _, c := range s.products[i].Codes {
			codes[c] = struct{}{}
		}
	}
	return codes
}
