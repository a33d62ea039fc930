package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/api/middleware"
	"github.com/kidusabdula/oskaz-storefront-api/internal/service"
)

// HandleListOrders handles GET /v1/orders - the authenticated purchaser's
// most recent sales orders.
func HandleListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := middleware.GetEmailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		list, err := orders.ListOrders(c.Request.Context(), email)
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": list,
			"meta": gin.H{"count": len(list)},
		})
	}
}
