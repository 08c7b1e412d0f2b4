package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srezka/kassa-api/internal/domain/cart"
	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/enum"
	"github.com/srezka/kassa-api/internal/domain/upstream"
	"github.com/srezka/kassa-api/internal/infrastructure/cartstore"
	"github.com/srezka/kassa-api/pkg/apperror"
)

func checkoutSetup(t *testing.T) (*CheckoutService, *cartstore.Memory, *mockUpstream, uuid.UUID) {
	t.Helper()
	store := cartstore.NewMemory()
	upstreamMock := &mockUpstream{}
	svc := NewCheckoutService(store, upstreamMock)
	return svc, store, upstreamMock, store.Create()
}

func fillCart(t *testing.T, store *cartstore.Memory, id uuid.UUID) {
	t.Helper()
	require.NoError(t, store.With(id, func(c *cart.Cart) error {
		p := &entity.Product{ID: 7, Name: "Тюльпаны", Price: decimal.NewFromInt(50), Stock: 5, Codes: []string{"TLP-1"}}
		if err := c.AddProduct(p, ""); err != nil {
			return err
		}
		if err := c.ChangeQty("7", "TLP-1", +1); err != nil {
			return err
		}
		if _, err := c.AddDiscount("Скидка", 1, decimal.NewFromInt(20)); err != nil {
			return err
		}
		_, err := c.AddService("Доставка", 1, decimal.NewFromInt(150))
		return err
	}))
}

func TestCheckout(t *testing.T) {
	t.Run("submits goods only, receipt carries everything", func(t *testing.T) {
		svc, store, upstreamMock, id := checkoutSetup(t)
		fillCart(t, store, id)

		receipt, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		require.NoError(t, err)

		require.Len(t, upstreamMock.salePayloads, 1)
		payload := upstreamMock.salePayloads[0]
		// 2x50 goods - 20 discount + 150 service
		assert.Equal(t, "230.00", payload.Total)
		assert.Equal(t, "cash", payload.PaymentType)
		require.Len(t, payload.Items, 1)
		assert.Equal(t, "TLP-1", payload.Items[0].Code)
		assert.Equal(t, 2, payload.Items[0].Quantity)
		assert.Equal(t, "100.00", payload.Items[0].Total)

		require.Len(t, receipt.Items, 3)
		assert.Equal(t, "230.00", receipt.Total)
		assert.Equal(t, enum.PaymentTypeCash, receipt.PaymentType)

		// Cart cleared after success.
		require.NoError(t, store.With(id, func(c *cart.Cart) error {
			assert.True(t, c.Empty())
			return nil
		}))
	})

	t.Run("server echo wins where present", func(t *testing.T) {
		svc, store, upstreamMock, id := checkoutSetup(t)
		fillCart(t, store, id)

		saleID := int64(4242)
		date := "2025-03-01T10:30:00Z"
		paymentType := "card"
		upstreamMock.saleResult = &upstream.SaleResult{ID: &saleID, Date: &date, PaymentType: &paymentType}

		receipt, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		require.NoError(t, err)
		assert.Equal(t, saleID, receipt.ID)
		assert.Equal(t, enum.PaymentTypeCard, receipt.PaymentType)
		expected, _ := time.Parse(time.RFC3339, date)
		assert.True(t, receipt.Date.Equal(expected))
	})

	t.Run("partial echo falls back locally", func(t *testing.T) {
		svc, store, _, id := checkoutSetup(t)
		fillCart(t, store, id)

		before := time.Now()
		receipt, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCard)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, receipt.ID, int64(0))
		assert.Less(t, receipt.ID, int64(1_000_000))
		assert.Equal(t, enum.PaymentTypeCard, receipt.PaymentType)
		assert.False(t, receipt.Date.Before(before))
	})

	t.Run("empty cart rejected before any network call", func(t *testing.T) {
		svc, _, upstreamMock, id := checkoutSetup(t)

		_, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		assert.ErrorIs(t, err, apperror.ErrCartEmpty)
		assert.Empty(t, upstreamMock.salePayloads)
	})

	t.Run("invalid payment type rejected", func(t *testing.T) {
		svc, store, upstreamMock, id := checkoutSetup(t)
		fillCart(t, store, id)

		_, err := svc.Checkout(context.Background(), id, enum.PaymentType("crypto"))
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
		assert.Empty(t, upstreamMock.salePayloads)
	})

	t.Run("stale overstock rejected before any network call", func(t *testing.T) {
		svc, store, upstreamMock, id := checkoutSetup(t)
		require.NoError(t, store.With(id, func(c *cart.Cart) error {
			c.RestoreSnapshot([]cart.Line{{
				ID:        "9",
				ProductID: 9,
				Code:      "PN-1",
				Name:      "Пионы",
				Kind:      enum.LineKindGoods,
				Quantity:  3,
				Price:     decimal.NewFromInt(80),
				Stock:     2,
			}})
			return nil
		}))

		_, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, "Пионы")
		assert.Contains(t, appErr.Message, "2")
		assert.Empty(t, upstreamMock.salePayloads)

		// Cart untouched.
		require.NoError(t, store.With(id, func(c *cart.Cart) error {
			assert.Equal(t, 1, c.Len())
			return nil
		}))
	})

	t.Run("upstream failure leaves cart intact", func(t *testing.T) {
		svc, store, upstreamMock, id := checkoutSetup(t)
		fillCart(t, store, id)
		upstreamMock.err = apperror.NewUpstreamError(500, "boom")

		_, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		require.Error(t, err)
		assert.Equal(t, 502, apperror.GetAppError(err).Code)

		require.NoError(t, store.With(id, func(c *cart.Cart) error {
			assert.Equal(t, 3, c.Len())
			return nil
		}))
	})

	t.Run("duplicate submission blocked while in flight", func(t *testing.T) {
		svc, store, _, id := checkoutSetup(t)
		fillCart(t, store, id)

		require.NoError(t, store.BeginCheckout(id))
		_, err := svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		assert.ErrorIs(t, err, apperror.ErrCheckoutBusy)
		store.EndCheckout(id)

		_, err = svc.Checkout(context.Background(), id, enum.PaymentTypeCash)
		assert.NoError(t, err)
	})

	t.Run("unknown cart", func(t *testing.T) {
		svc, _, _, _ := checkoutSetup(t)
		_, err := svc.Checkout(context.Background(), uuid.New(), enum.PaymentTypeCash)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}
