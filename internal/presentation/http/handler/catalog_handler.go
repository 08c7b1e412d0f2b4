package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/response"
)

// CatalogHandler serves the cached catalog and its refresh operation
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Categories lists product categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	response.OK(c, "Categories retrieved", h.catalogService.Categories())
}

// Products lists products, optionally filtered by category name and a
// case-insensitive name search.
func (h *CatalogHandler) Products(c *gin.Context) {
	products := h.catalogService.Products(c.Query("category"), c.Query("search"))
	response.OK(c, "Products retrieved", products)
}

// Refresh re-pulls categories and stocks from the store API.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.catalogService.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog refreshed", gin.H{
		"categories": len(h.catalogService.Categories()),
		"products":   len(h.catalogService.Products("", "")),
	})
}
