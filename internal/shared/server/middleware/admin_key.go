package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/shared/server/respond"
)

// AdminKey gates a route group behind a shared API key carried in the
// X-Admin-Key header. An empty configured key disables the gate entirely.
func AdminKey(key string) gin.HandlerFunc {
	key = strings.TrimSpace(key)
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader("X-Admin-Key"))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "Invalid or missing admin key")
			return
		}
		c.Next()
	}
}
