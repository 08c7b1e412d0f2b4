package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/domain/cart"
	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/enum"
	"github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/internal/infrastructure/cartstore"
	"github.com/srezka/kassa-api/pkg/apperror"
)

// CheckoutService validates the cart, submits goods lines to the store API
// and builds the locally-reconciled receipt.
type CheckoutService struct {
	store *cartstore.Memory
	sales upstream.SalesClient
	log   *logrus.Entry
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *cartstore.Memory, sales upstream.SalesClient) *CheckoutService {
	return &CheckoutService{
		store: store,
		sales: sales,
		log:   logrus.WithField("component", "checkout"),
	}
}

// Checkout runs the full sale: validate, submit, reconcile, clear.
//
// Validation failures (empty cart, overstock) happen before any network call.
// An upstream failure leaves the cart untouched so the cashier can retry by
// hand; there is no partial commit and no automatic retry. The per-cart
// in-flight flag rejects a duplicate submission while one is running.
func (s *CheckoutService) Checkout(ctx context.Context, cartID uuid.UUID, payment enum.PaymentType) (*entity.Receipt, error) {
	if !payment.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_type", Message: "must be cash or card"},
		})
	}

	if err := s.store.BeginCheckout(cartID); err != nil {
		return nil, err
	}
	defer s.store.EndCheckout(cartID)

	// Snapshot and validate under the store lock; the network call below
	// runs outside it.
	var lines []cart.Line
	var totals cart.Totals
	err := s.store.With(cartID, func(c *cart.Cart) error {
		if c.Empty() {
			return apperror.ErrCartEmpty
		}
		if err := c.Validate(); err != nil {
			var over *cart.OverstockError
			if errors.As(err, &over) {
				return apperror.NewBadRequestError(over.Error())
			}
			return err
		}
		lines = c.Lines()
		totals = c.Totals()
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload := buildPayload(lines, totals, payment)
	result, err := s.sales.CreateSale(ctx, payload)
	if err != nil {
		s.log.WithError(err).WithField("cart_id", cartID).Error("sale submission failed")
		return nil, err
	}

	receipt := buildReceipt(lines, totals, payment, result)

	// Only a successful sale empties the cart.
	if err := s.store.With(cartID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	}); err != nil {
		s.log.WithError(err).WithField("cart_id", cartID).Warn("cart gone after successful sale")
	}

	s.log.WithFields(logrus.Fields{
		"cart_id": cartID,
		"receipt": receipt.ID,
		"total":   receipt.Total,
	}).Info("sale completed")
	return receipt, nil
}

// buildPayload maps goods lines to the sales wire format. Discount and
// service lines stay local: the backend serializer would reject them, while
// the total still covers the whole receipt.
func buildPayload(lines []cart.Line, totals cart.Totals, payment enum.PaymentType) upstream.SalePayload {
	items := make([]upstream.SalePayloadItem, 0, len(lines))
	for _, l := range lines {
		if l.Kind != enum.LineKindGoods {
			continue
		}
		items = append(items, upstream.SalePayloadItem{
			Code:     l.Code,
			Name:     l.Name,
			Price:    l.Price.InexactFloat64(),
			Quantity: l.Quantity,
			Total:    l.Total().StringFixed(2),
		})
	}
	return upstream.SalePayload{
		Total:       totals.Grand.StringFixed(2),
		PaymentType: payment.String(),
		Items:       items,
	}
}

// buildReceipt merges the server echo with the full local cart. The server
// cannot represent discount or service lines, so items and total always come
// from the terminal side; id, date and payment type prefer the server when
// present.
func buildReceipt(lines []cart.Line, totals cart.Totals, payment enum.PaymentType, result *upstream.SaleResult) *entity.Receipt {
	receipt := &entity.Receipt{
		ID:          int64(rand.Intn(1_000_000)),
		Date:        time.Now(),
		PaymentType: payment,
		Total:       totals.Grand.StringFixed(2),
	}
	if result != nil {
		if result.ID != nil {
			receipt.ID = *result.ID
		}
		if result.Date != nil {
			if t, err := time.Parse(time.RFC3339, *result.Date); err == nil {
				receipt.Date = t
			}
		}
		if result.PaymentType != nil && enum.PaymentType(*result.PaymentType).Valid() {
			receipt.PaymentType = enum.PaymentType(*result.PaymentType)
		}
	}

	receipt.Items = make([]entity.ReceiptItem, 0, len(lines))
	for _, l := range lines {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Code:     l.Code,
			Name:     l.Name,
			Kind:     l.Kind,
			Price:    l.Price,
			Quantity: l.Quantity,
			Total:    l.Total(),
		})
	}
	return receipt
}
