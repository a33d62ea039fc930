package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/api/handlers"
	"github.com/kidusabdula/oskaz-storefront-api/internal/api/middleware"
	"github.com/kidusabdula/oskaz-storefront-api/internal/cart"
	"github.com/kidusabdula/oskaz-storefront-api/internal/config"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
	"github.com/kidusabdula/oskaz-storefront-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, erp *erpnext.Client, carts *cart.Store, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	items := service.NewItemService(erp, cfg.Checkout.DefaultWarehouse, logger)
	orders := service.NewOrderService(erp, logger)
	checkout := service.NewCheckoutService(erp, carts, cfg.Checkout, logger)

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Oskaz Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /api/files/*filepath",
				"GET /v1/catalog/items/:item_code",
				"GET /v1/cart",
				"POST /v1/cart/items",
				"POST /v1/checkout",
				"GET /v1/orders",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Image/file proxy: backend file paths are only ever exposed through here
	router.GET("/api/files/*filepath", handlers.HandleFileProxy(erp, logger))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Catalog browsing needs no login
		v1.GET("/catalog/items/:item_code", handlers.HandleGetItemDetail(items, logger))

		// Cart routes: session-scoped, no login required
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(middleware.CartSessionMiddleware())
		{
			cartRoutes.GET("", handlers.HandleGetCart(carts, logger))
			cartRoutes.DELETE("", handlers.HandleClearCart(carts, logger))
			cartRoutes.POST("/items", handlers.HandleAddItem(carts, logger))
			cartRoutes.PATCH("/items/:id", handlers.HandleUpdateQuantity(carts, logger))
			cartRoutes.DELETE("/items/:id", handlers.HandleRemoveItem(carts, logger))
			cartRoutes.PUT("/open", handlers.HandleSetCartOpen(carts, logger))
			cartRoutes.POST("/toggle", handlers.HandleToggleCart(carts, logger))
		}

		// Checkout and order history require an authenticated session
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.Session.JWTSecret, logger))
		{
			checkoutRoutes := authed.Group("")
			checkoutRoutes.Use(middleware.CartSessionMiddleware())
			checkoutRoutes.POST("/checkout", handlers.HandleCheckout(checkout, carts, logger))

			authed.GET("/orders", handlers.HandleListOrders(orders, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
