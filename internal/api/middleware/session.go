package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionContextKey = "cart_session"
	// SessionHeader carries the cart session ID. The server issues one on
	// first contact and echoes it back on every response; the client sends
	// it on subsequent requests so the cart survives page loads.
	SessionHeader = "X-Cart-Session"
)

// CartSessionMiddleware resolves or issues the cart session ID.
func CartSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set(SessionContextKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionFromContext retrieves the cart session ID from the Gin context.
func GetSessionFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionContextKey)
	if !exists {
		return "", false
	}
	s, ok := sessionID.(string)
	return s, ok && s != ""
}
