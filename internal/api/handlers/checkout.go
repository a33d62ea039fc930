package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/api/middleware"
	"github.com/kidusabdula/oskaz-storefront-api/internal/cart"
	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
	"github.com/kidusabdula/oskaz-storefront-api/internal/service"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// CheckoutRequest is the order submission payload. The purchaser email
// comes from the authenticated session, the items from the cart.
type CheckoutRequest struct {
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD, defaults to now + lead days
	Notes        string `json:"notes"`
}

// CheckoutResponse surfaces the created order's name as the confirmation
// number.
type CheckoutResponse struct {
	OrderName    string `json:"order_name"`
	Customer     string `json:"customer"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
}

// HandleCheckout handles POST /v1/checkout. On failure the cart is left
// intact so the purchaser can retry without re-adding items.
func HandleCheckout(checkout *service.CheckoutService, carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := middleware.GetEmailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart session"})
			return
		}

		// The body is optional; delivery date and notes both have defaults.
		var req CheckoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "validation failed",
					"details": err.Error(),
				})
				return
			}
		}

		var deliveryDate *time.Time
		if req.DeliveryDate != "" {
			parsed, err := time.Parse("2006-01-02", req.DeliveryDate)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "validation failed",
					"details": "delivery_date must be YYYY-MM-DD",
				})
				return
			}
			deliveryDate = &parsed
		}

		snapshot := carts.Get(c.Request.Context(), sessionID)
		submission := domain.OrderSubmission{
			Email:        email,
			Items:        snapshot.Items,
			DeliveryDate: deliveryDate,
			Notes:        req.Notes,
		}

		order, err := checkout.PlaceOrder(c.Request.Context(), sessionID, submission)
		if err != nil {
			respondCheckoutError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{
			OrderName:    order.Name,
			Customer:     order.Customer,
			DeliveryDate: order.DeliveryDate,
			Status:       order.Status,
		})
	}
}

// respondCheckoutError maps the checkout error taxonomy onto HTTP. Every
// failure is a single dismissable message; nothing is retried server-side.
func respondCheckoutError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  e.Message,
			"fields": e.Fields,
		})
	case *errors.ErrCustomerResolution:
		logger.Error("Checkout failed during customer resolution", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "we could not set up your customer record, please try again",
		})
	case *errors.ErrOrderSubmission:
		logger.Error("Checkout failed during order submission", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "your order could not be placed, please try again",
		})
	default:
		logger.Error("Checkout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
