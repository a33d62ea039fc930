package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// HandleFileProxy handles GET /api/files/*filepath. Product images are
// served through this indirection so raw ERPNext file paths never reach the
// client.
func HandleFileProxy(erp *erpnext.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		encoded := strings.TrimPrefix(c.Param("filepath"), "/")
		if encoded == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file path required"})
			return
		}

		backendPath, err := erpnext.DenormalizeFilePath(encoded)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file path"})
			return
		}

		body, contentType, err := erp.FetchFile(c.Request.Context(), backendPath)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.Status(http.StatusNotFound)
				return
			}
			logger.Warn("File proxy fetch failed", zap.String("path", backendPath), zap.Error(err))
			c.Status(http.StatusBadGateway)
			return
		}
		defer body.Close()

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Cache-Control", "public, max-age=86400")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, body); err != nil {
			logger.Debug("File proxy stream interrupted", zap.String("path", backendPath), zap.Error(err))
		}
	}
}
