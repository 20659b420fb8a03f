package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/shared/telemetry"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Data writes a success envelope with an optional data payload.
func Data(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	JSON(c, status, body)
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	Data(c, http.StatusOK, message, data)
}

// Error logs and sends a failure envelope. The message must be safe to show
// to callers; upstream causes belong in the log fields, not the body.
func Error(c *gin.Context, status int, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
