package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/config"
	"github.com/srezka/kassa-api/internal/infrastructure/cartstore"
	"github.com/srezka/kassa-api/internal/infrastructure/upstream"
	"github.com/srezka/kassa-api/internal/presentation/http/handler"
	"github.com/srezka/kassa-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Store API client and in-memory cart store
	client := upstream.NewClient(&cfg.Upstream)
	store := cartstore.NewMemory()

	// Initialize services
	catalogService := service.NewCatalogService(client)
	cartService := service.NewCartService(store, catalogService)
	checkoutService := service.NewCheckoutService(store, client)
	stockService := service.NewStockService(client, catalogService)
	reportService := service.NewReportService(client, client, client)

	// Initial catalog pull. A failure leaves the catalog empty; the API
	// stays up and /catalog/refresh can retry.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogService.Load(ctx); err != nil {
		logrus.WithError(err).Warn("initial catalog load failed, starting with empty catalog")
	}
	cancel()

	// Initialize handlers
	handlers := &routes.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Stock:    handler.NewStockHandler(stockService),
		Report:   handler.NewReportHandler(reportService),
	}

	router := routes.Setup(handlers, cfg)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logrus.WithFields(logrus.Fields{
		"service":  cfg.App.Name,
		"env":      cfg.App.Env,
		"port":     port,
		"upstream": cfg.Upstream.BaseURL,
	}).Info("starting server")

	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
