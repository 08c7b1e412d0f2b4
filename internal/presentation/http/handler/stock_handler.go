package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/request"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/response"
)

// StockHandler handles stock CRUD passthrough to the store API
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateBatch creates a batch of stock rows with generated SKU codes.
func (h *StockHandler) CreateBatch(c *gin.Context) {
	var req request.CreateStocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows := make([]service.StockRowInput, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, toRowInput(r))
	}

	if err := h.stockService.CreateBatch(c.Request.Context(), rows); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock rows created", gin.H{"created": len(rows)})
}

// Update replaces one stock row.
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := Int64Param(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid stock id")
		return
	}
	var req request.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.stockService.Update(c.Request.Context(), id, toRowInput(req.StockRowRequest), req.Codes); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock updated", nil)
}

// Delete removes one stock row.
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := Int64Param(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid stock id")
		return
	}
	if err := h.stockService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summary returns the stock table footer totals, optionally for one category.
func (h *StockHandler) Summary(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid category id")
			return
		}
		categoryID = parsed
	}
	response.OK(c, "Stock summary", h.stockService.Summary(categoryID))
}

func toRowInput(r request.StockRowRequest) service.StockRowInput {
	return service.StockRowInput{
		Name:          r.Name,
		Quantity:      r.Quantity,
		Price:         decimal.NewFromFloat(r.Price),
		PriceSeller:   decimal.NewFromFloat(r.PriceSeller),
		Unit:          r.Unit,
		FixedQuantity: r.FixedQuantity,
		CategoryID:    r.CategoryID,
	}
}
