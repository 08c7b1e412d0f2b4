package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/domain/enum"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/request"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/response"
)

// CheckoutHandler submits cart sessions as sales
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout validates and submits the cart, returning the reconciled receipt.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.checkoutService.Checkout(c.Request.Context(), id, enum.PaymentType(req.PaymentType))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", receipt)
}
