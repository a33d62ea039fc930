package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/api/middleware"
	"github.com/kidusabdula/oskaz-storefront-api/internal/cart"
	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
)

// AddItemRequest is the payload for adding a product to the cart. The
// product page supplies the full line metadata so the cart never has to
// call back into the catalog.
type AddItemRequest struct {
	ID            string  `json:"id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	ItemCode      string  `json:"item_code" binding:"required"`
	Price         float64 `json:"price" binding:"min=0"`
	Currency      string  `json:"currency" binding:"required"`
	Image         string  `json:"image"`
	Stock         int     `json:"stock" binding:"min=0"`
	MinOrderQty   int     `json:"min_order_qty"`
	ItemGroup     string  `json:"item_group"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	WeightUOM     string  `json:"weight_uom"`
	Quantity      int     `json:"quantity"`
}

// UpdateQuantityRequest sets a line's quantity. Non-positive values remove
// the line; clamping to [min_order_qty, stock] is the client's job.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetOpenRequest sets the cart flyout visibility flag.
type SetOpenRequest struct {
	Open bool `json:"open"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}
		c.JSON(http.StatusOK, carts.Get(c.Request.Context(), sessionID))
	}
}

// HandleAddItem handles POST /v1/cart/items. An add that would push a line
// past its stock ceiling is silently dropped; the response carries the
// unchanged cart.
func HandleAddItem(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		minOrderQty := req.MinOrderQty
		if minOrderQty <= 0 {
			minOrderQty = 1
		}
		item := domain.CartLineItem{
			ID:            req.ID,
			Name:          req.Name,
			ItemCode:      req.ItemCode,
			Price:         req.Price,
			Currency:      req.Currency,
			Image:         req.Image,
			Stock:         req.Stock,
			MinOrderQty:   minOrderQty,
			ItemGroup:     req.ItemGroup,
			WeightPerUnit: req.WeightPerUnit,
			WeightUOM:     req.WeightUOM,
		}

		updated := carts.AddItem(c.Request.Context(), sessionID, item, req.Quantity)
		logger.Debug("Cart add handled",
			zap.String("item_id", req.ID),
			zap.Int("total_items", updated.TotalItems),
		)
		c.JSON(http.StatusOK, updated)
	}
}

// HandleUpdateQuantity handles PATCH /v1/cart/items/:id
func HandleUpdateQuantity(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		updated := carts.UpdateQuantity(c.Request.Context(), sessionID, c.Param("id"), req.Quantity)
		c.JSON(http.StatusOK, updated)
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id. Removing an absent
// line succeeds with the cart unchanged.
func HandleRemoveItem(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}
		c.JSON(http.StatusOK, carts.RemoveItem(c.Request.Context(), sessionID, c.Param("id")))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}
		c.JSON(http.StatusOK, carts.Clear(c.Request.Context(), sessionID))
	}
}

// HandleSetCartOpen handles PUT /v1/cart/open
func HandleSetCartOpen(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}

		var req SetOpenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, carts.SetOpen(c.Request.Context(), sessionID, req.Open))
	}
}

// HandleToggleCart handles POST /v1/cart/toggle
func HandleToggleCart(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}
		c.JSON(http.StatusOK, carts.Toggle(c.Request.Context(), sessionID))
	}
}
