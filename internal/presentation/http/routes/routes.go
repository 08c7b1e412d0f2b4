package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srezka/kassa-api/internal/config"
	"github.com/srezka/kassa-api/internal/presentation/http/handler"
	"github.com/srezka/kassa-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Stock    *handler.StockHandler
	Report   *handler.ReportHandler
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		registerCatalogRoutes(v1, h)
		registerStockRoutes(v1, h)
		registerCartRoutes(v1, h)
		registerReportRoutes(v1, h)
	}

	return router
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/categories", h.Catalog.Categories)
		catalog.GET("/products", h.Catalog.Products)
		catalog.POST("/refresh", h.Catalog.Refresh)
	}
}

func registerStockRoutes(v1 *gin.RouterGroup, h *Handlers) {
	stocks := v1.Group("/stocks")
	{
		stocks.POST("", h.Stock.CreateBatch)
		stocks.GET("/summary", h.Stock.Summary)
		stocks.PUT("/:id", h.Stock.Update)
		stocks.DELETE("/:id", h.Stock.Delete)
	}
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	carts := v1.Group("/carts")
	{
		carts.POST("", h.Cart.Create)
		carts.GET("/:id", h.Cart.Get)
		carts.DELETE("/:id", h.Cart.Clear)
		carts.POST("/:id/items", h.Cart.AddItem)
		carts.POST("/:id/discounts", h.Cart.AddDiscount)
		carts.POST("/:id/services", h.Cart.AddService)
		carts.PATCH("/:id/lines/:lineID", h.Cart.UpdateLine)
		carts.DELETE("/:id/lines/:lineID", h.Cart.RemoveLine)
		carts.POST("/:id/checkout", h.Checkout.Checkout)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/finance", h.Report.Finance)
		reports.GET("/sales", h.Report.Sales)
	}
}
