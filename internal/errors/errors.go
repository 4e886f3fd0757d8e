// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Lock and credential errors.
var (
	ErrAppLocked       = &AppError{Code: "APP_LOCKED", Message: "Unlock required", StatusCode: http.StatusUnauthorized}
	ErrIncorrectPin    = &AppError{Code: "INCORRECT_PIN", Message: "Incorrect PIN", StatusCode: http.StatusUnauthorized}
	ErrPinTooShort     = &AppError{Code: "PIN_TOO_SHORT", Message: "PIN must be at least 4 digits", StatusCode: http.StatusBadRequest}
	ErrPinMismatch     = &AppError{Code: "PIN_MISMATCH", Message: "PINs do not match", StatusCode: http.StatusBadRequest}
	ErrPinNotSet       = &AppError{Code: "PIN_NOT_SET", Message: "No PIN is configured", StatusCode: http.StatusBadRequest}
	ErrSessionNotFound = &AppError{Code: "SESSION_NOT_FOUND", Message: "Lock session not found or expired", StatusCode: http.StatusNotFound}
	ErrChallengeBusy   = &AppError{Code: "CHALLENGE_BUSY", Message: "An authentication challenge is already in progress", StatusCode: http.StatusConflict}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrInvalidPaymentMode     = &AppError{Code: "INVALID_PAYMENT_MODE", Message: "Unsupported payment mode", StatusCode: http.StatusBadRequest}
)

// Export and backup errors.
var (
	ErrNoTransactions = &AppError{Code: "NO_TRANSACTIONS", Message: "No transactions to export", StatusCode: http.StatusNotFound}
	ErrInvalidBackup  = &AppError{Code: "INVALID_BACKUP", Message: "Invalid backup file", StatusCode: http.StatusBadRequest}
)
