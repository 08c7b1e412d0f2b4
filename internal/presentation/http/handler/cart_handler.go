package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/request"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/response"
)

// CartHandler handles cart session HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Create opens a new cart session.
func (h *CartHandler) Create(c *gin.Context) {
	id := h.cartService.Create()
	response.Created(c, "Cart created", gin.H{"cart_id": id})
}

// Get returns the cart rows, totals and per-product remaining stock.
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	view, err := h.cartService.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved", view)
}

// Clear empties the cart session.
func (h *CartHandler) Clear(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	if err := h.cartService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddItem adds one unit of a product to the cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.cartService.AddProduct(id, req.ProductID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", view)
}

// AddDiscount adds an ad-hoc discount line.
func (h *CartHandler) AddDiscount(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	var req request.AddDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.cartService.AddDiscount(id, req.Name, req.Qty, decimal.NewFromFloat(req.Price))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount added", view)
}

// AddService adds an ad-hoc service line.
func (h *CartHandler) AddService(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	var req request.AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.cartService.AddService(id, req.Name, req.Qty, decimal.NewFromFloat(req.Price))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service added", view)
}

// UpdateLine edits one cart row: delta bump, absolute quantity, or price
// override, applied in that order of precedence.
func (h *CartHandler) UpdateLine(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	lineID := c.Param("lineID")

	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var (
		view *service.CartView
		err  error
	)
	switch {
	case req.Delta != nil:
		view, err = h.cartService.ChangeQty(id, lineID, req.Code, *req.Delta)
	case req.Qty != nil:
		view, err = h.cartService.SetQty(id, lineID, req.Code, *req.Qty)
	case req.Price != nil:
		view, err = h.cartService.SetPrice(id, lineID, req.Code, decimal.NewFromFloat(*req.Price))
	default:
		response.BadRequest(c, "One of delta, qty or price is required")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line updated", view)
}

// RemoveLine deletes one cart row.
func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, ok := CartID(c)
	if !ok {
		response.BadRequest(c, "Invalid cart id")
		return
	}
	view, err := h.cartService.RemoveLine(id, c.Param("lineID"), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed", view)
}
