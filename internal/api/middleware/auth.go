package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const EmailContextKey = "purchaser_email"

// AuthMiddleware authenticates requests using the identity provider's
// session token (bearer JWT, HS256 shared secret). The storefront only
// verifies signature and expiry and extracts the purchaser's email; it
// never issues tokens.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Failed to verify session token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			c.Abort()
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			// Some providers put the email in the subject claim.
			email, _ = claims["sub"].(string)
		}
		if email == "" || !strings.Contains(email, "@") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session token has no usable email"})
			c.Abort()
			return
		}

		c.Set(EmailContextKey, email)
		c.Next()
	}
}

// GetEmailFromContext retrieves the verified purchaser email from the Gin
// context.
func GetEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(EmailContextKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok && s != ""
}
