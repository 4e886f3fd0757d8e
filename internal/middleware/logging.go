package middleware

import (
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/uuid"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with a generated request ID, method,
// path, status and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Get().Infow("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Recovery converts panics into a 500 response without leaking details.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Errorw("panic recovered", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(500, gin.H{
					"error": gin.H{"code": "INTERNAL_ERROR", "message": "An internal error occurred"},
				})
			}
		}()
		c.Next()
	}
}
