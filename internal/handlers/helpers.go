// Package handlers contains the HTTP handlers for the fintrack API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/errors"
	"fintrack/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondWithError writes an AppError as a JSON response. Unknown errors
// are logged and masked as internal errors.
func respondWithError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error", "error", err, "path", c.Request.URL.Path)
		appErr = errors.ErrInternalServer
	}
	if appErr.Internal != nil {
		logger.Get().Errorw("request failed", "code", appErr.Code, "error", appErr.Internal, "path", c.Request.URL.Path)
	}
	c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorBody{Code: appErr.Code, Message: appErr.Message}})
}

// respondWithValidationError writes a 400 with the binding error message.
func respondWithValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
		Code:    errors.ErrInvalidInput.Code,
		Message: err.Error(),
	}})
}
