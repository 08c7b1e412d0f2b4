package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srezka/kassa-api/internal/domain/cart"
	"github.com/srezka/kassa-api/internal/infrastructure/cartstore"
	"github.com/srezka/kassa-api/pkg/apperror"
)

// CartService owns cart session lifecycle and routes mutations into the cart
// engine. Every mutation returns the full cart view so the client never
// derives totals itself.
type CartService struct {
	store   *cartstore.Memory
	catalog *CatalogService
}

// NewCartService creates a new cart service
func NewCartService(store *cartstore.Memory, catalog *CatalogService) *CartService {
	return &CartService{store: store, catalog: catalog}
}

// CartView is a cart snapshot: rows, totals, and the remaining stock per
// product after what the cart already holds.
type CartView struct {
	ID        uuid.UUID     `json:"id"`
	Lines     []cart.Line   `json:"lines"`
	Totals    cart.Totals   `json:"totals"`
	Remaining map[int64]int `json:"remaining"`
}

// Create opens a new cart session.
func (s *CartService) Create() uuid.UUID {
	return s.store.Create()
}

// Get returns the current cart view.
func (s *CartService) Get(id uuid.UUID) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error { return nil })
}

// Delete drops the cart session entirely.
func (s *CartService) Delete(id uuid.UUID) error {
	return s.store.With(id, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// AddProduct adds one unit of a catalog product under the given code.
func (s *CartService) AddProduct(id uuid.UUID, productID int64, code string) (*CartView, error) {
	product, err := s.catalog.ProductByID(productID)
	if err != nil {
		return nil, err
	}
	return s.view(id, func(c *cart.Cart) error {
		return c.AddProduct(product, code)
	})
}

// AddDiscount adds an ad-hoc discount line. Quantity and price arrive as
// floats from the wire; quantity is floored, price sign is normalized by the
// engine.
func (s *CartService) AddDiscount(id uuid.UUID, name string, qty float64, price decimal.Decimal) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		_, err := c.AddDiscount(name, int(qty), price)
		return err
	})
}

// AddService adds an ad-hoc service line.
func (s *CartService) AddService(id uuid.UUID, name string, qty float64, price decimal.Decimal) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		_, err := c.AddService(name, int(qty), price)
		return err
	})
}

// ChangeQty bumps a row quantity by delta.
func (s *CartService) ChangeQty(id uuid.UUID, lineID, code string, delta int) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		return c.ChangeQty(lineID, code, delta)
	})
}

// SetQty sets a row quantity outright. Fractional input is floored.
func (s *CartService) SetQty(id uuid.UUID, lineID, code string, qty float64) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		return c.SetQty(lineID, code, int(qty))
	})
}

// SetPrice overrides a row unit price.
func (s *CartService) SetPrice(id uuid.UUID, lineID, code string, price decimal.Decimal) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		return c.SetPrice(lineID, code, price)
	})
}

// RemoveLine deletes a row.
func (s *CartService) RemoveLine(id uuid.UUID, lineID, code string) (*CartView, error) {
	return s.view(id, func(c *cart.Cart) error {
		return c.Remove(lineID, code)
	})
}

func (s *CartService) view(id uuid.UUID, mutate func(c *cart.Cart) error) (*CartView, error) {
	var view *CartView
	err := s.store.With(id, func(c *cart.Cart) error {
		if err := mutate(c); err != nil {
			return mapCartError(err)
		}
		view = &CartView{
			ID:        id,
			Lines:     c.Lines(),
			Totals:    c.Totals(),
			Remaining: s.remaining(c),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *CartService) remaining(c *cart.Cart) map[int64]int {
	out := make(map[int64]int)
	for _, l := range c.Lines() {
		if l.ProductID == 0 {
			continue
		}
		left := l.Stock - c.GoodsQtyFor(l.ProductID)
		if left < 0 {
			left = 0
		}
		out[l.ProductID] = left
	}
	return out
}

// mapCartError translates engine sentinels into transport-level errors.
func mapCartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return apperror.NewBadRequestError("No stock remaining")
	case errors.Is(err, cart.ErrInsufficientStock):
		return apperror.NewBadRequestError("Insufficient stock")
	case errors.Is(err, cart.ErrLineNotFound):
		return apperror.NewNotFoundError("Cart line")
	case errors.Is(err, cart.ErrDiscountZero):
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "price", Message: "discount amount is required"},
		})
	case errors.Is(err, cart.ErrServiceName):
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "service name is required"},
		})
	case errors.Is(err, cart.ErrServicePrice):
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "price", Message: "service price must be positive"},
		})
	default:
		return err
	}
}
