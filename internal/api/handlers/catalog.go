package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/service"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// HandleGetItemDetail handles GET /v1/catalog/items/:item_code. The base
// item must exist; auxiliary fields (price, stock, tags, related items)
// degrade to defaults when their lookups fail.
func HandleGetItemDetail(items *service.ItemService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemCode := c.Param("item_code")
		if itemCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item code required"})
			return
		}

		detail, err := items.GetItemDetail(c.Request.Context(), itemCode)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			logger.Error("Failed to assemble item detail", zap.String("item_code", itemCode), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}
