package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"financeai/internal/logger"
	"financeai/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging tags each request with an ID, echoes it in X-Request-ID,
// and logs method, path, status, latency and client IP on completion.
// The authenticated user is included once AuthMiddleware has run.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		logger.Get().Infow("request", fields...)
	}
}
