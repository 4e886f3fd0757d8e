package middleware

import (
	stderrors "errors"

	"fintrack/internal/errors"
	"fintrack/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors recorded on the Gin context into the
// standard JSON error envelope. An AppError is rendered with its own code,
// message and status; anything else is logged and masked as an internal
// error. Handlers that have already written a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// The last error is the one closest to the handler.
		err := c.Errors.Last().Err

		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("request failed",
					"code", appErr.Code,
					"error", appErr.Internal,
					"path", c.Request.URL.Path,
				)
			}
			c.JSON(appErr.StatusCode, gin.H{
				"error": gin.H{"code": appErr.Code, "message": appErr.Message},
			})
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(errors.ErrInternalServer.StatusCode, gin.H{
			"error": gin.H{
				"code":    errors.ErrInternalServer.Code,
				"message": errors.ErrInternalServer.Message,
			},
		})
	}
}
