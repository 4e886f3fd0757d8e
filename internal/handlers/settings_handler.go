package handlers

import (
	"net/http"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the user settings record.
type SettingsHandler struct {
	settings services.SettingsServicer
	alerts   services.AlertServicer
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings services.SettingsServicer, alerts services.AlertServicer) *SettingsHandler {
	return &SettingsHandler{settings: settings, alerts: alerts}
}

// UpdateSettingsRequest is the full settings record. All fields are
// required; partial updates are not supported.
type UpdateSettingsRequest struct {
	BiometricEnabled          *bool  `json:"biometric_enabled" binding:"required"`
	MonthlySummaryAlerts      *bool  `json:"monthly_summary_alerts" binding:"required"`
	LargeTransactionAlerts    *bool  `json:"large_transaction_alerts" binding:"required"`
	LargeTransactionThreshold *int64 `json:"large_transaction_threshold" binding:"required,min=1"`
	LowBalanceAlerts          *bool  `json:"low_balance_alerts" binding:"required"`
	LowBalanceThreshold       *int64 `json:"low_balance_threshold" binding:"required,min=1"`
}

// GetSettings godoc
// @Summary Get user settings
// @Description Returns the current settings, applying defaults when nothing has been saved yet.
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserSettings
// @Failure 401 {object} ErrorResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Load()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Replace user settings
// @Description Saves the full settings record and reconciles recurring reminders.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} models.UserSettings
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	settings := models.UserSettings{
		BiometricEnabled:          *req.BiometricEnabled,
		MonthlySummaryAlerts:      *req.MonthlySummaryAlerts,
		LargeTransactionAlerts:    *req.LargeTransactionAlerts,
		LargeTransactionThreshold: *req.LargeTransactionThreshold,
		LowBalanceAlerts:          *req.LowBalanceAlerts,
		LowBalanceThreshold:       *req.LowBalanceThreshold,
	}
	if err := h.settings.Save(settings); err != nil {
		respondWithError(c, err)
		return
	}

	// The settings save is already committed; a scheduling failure is
	// logged, not surfaced.
	if err := h.alerts.ReconcileSchedules(); err != nil {
		logger.Get().Errorw("schedule reconcile failed after settings save", "error", err)
	}
	c.JSON(http.StatusOK, settings)
}
