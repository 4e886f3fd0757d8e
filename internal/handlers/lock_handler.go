package handlers

import (
	"net/http"
	"time"

	"fintrack/internal/authgate"
	"fintrack/internal/biometric"
	"fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// LockHandler exposes the app lock state machine and the PIN lifecycle.
type LockHandler struct {
	manager     *authgate.Manager
	credentials services.CredentialServicer
	jwtSecret   string
	tokenTTL    time.Duration
}

// NewLockHandler creates a new lock handler.
func NewLockHandler(manager *authgate.Manager, credentials services.CredentialServicer, jwtSecret string, tokenTTL time.Duration) *LockHandler {
	return &LockHandler{
		manager:     manager,
		credentials: credentials,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// SessionResponse describes a lock session's current state.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	LastError string `json:"last_error,omitempty"`
	Token     string `json:"token,omitempty"`
}

// SubmitPinRequest carries a PIN attempt.
type SubmitPinRequest struct {
	Pin string `json:"pin" binding:"required,numeric_pin"`
}

// BiometricResultRequest carries a device biometric outcome.
type BiometricResultRequest struct {
	Success           bool `json:"success"`
	FallbackRequested bool `json:"fallback_requested"`
}

// SetPinRequest carries a new PIN and its confirmation.
type SetPinRequest struct {
	Pin     string `json:"pin" binding:"required,numeric_pin"`
	Confirm string `json:"confirm" binding:"required,numeric_pin"`
}

// ChangePinRequest carries the current PIN and the replacement.
type ChangePinRequest struct {
	Current string `json:"current" binding:"required"`
	Pin     string `json:"pin" binding:"required,numeric_pin"`
	Confirm string `json:"confirm" binding:"required,numeric_pin"`
}

// DisablePinRequest carries the current PIN for verification.
type DisablePinRequest struct {
	Current string `json:"current" binding:"required"`
}

// PinStatusResponse reports whether a PIN is configured.
type PinStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// OpenSession godoc
// @Summary Open a lock session
// @Description Creates a new lock session and starts the initial challenge. With no PIN configured the session is immediately unlocked and a token is returned.
// @Tags lock
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /lock/sessions [post]
func (h *LockHandler) OpenSession(c *gin.Context) {
	id, state := h.manager.Open(c.Request.Context())

	resp := SessionResponse{SessionID: id, State: string(state)}
	if state == authgate.StateUnlocked {
		token, err := middleware.IssueUnlockToken(h.jwtSecret, id, h.tokenTTL)
		if err != nil {
			respondWithError(c, errors.Wrap(errors.ErrInternalServer, err))
			return
		}
		resp.Token = token
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary Get lock session state
// @Tags lock
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /lock/sessions/{id} [get]
func (h *LockHandler) GetSession(c *gin.Context) {
	gate, ok := h.manager.Gate(c.Param("id"))
	if !ok {
		respondWithError(c, errors.ErrSessionNotFound)
		return
	}

	resp := SessionResponse{SessionID: c.Param("id"), State: string(gate.State())}
	if lastErr := gate.LastError(); lastErr != nil {
		resp.LastError = lastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitPin godoc
// @Summary Submit a PIN attempt
// @Description Unlocks the session when the PIN is correct and returns an unlock token.
// @Tags lock
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SubmitPinRequest true "PIN attempt"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lock/sessions/{id}/pin [post]
func (h *LockHandler) SubmitPin(c *gin.Context) {
	gate, ok := h.manager.Gate(c.Param("id"))
	if !ok {
		respondWithError(c, errors.ErrSessionNotFound)
		return
	}

	var req SubmitPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	if err := gate.SubmitPIN(req.Pin); err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.IssueUnlockToken(h.jwtSecret, c.Param("id"), h.tokenTTL)
	if err != nil {
		respondWithError(c, errors.Wrap(errors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		SessionID: c.Param("id"),
		State:     string(gate.State()),
		Token:     token,
	})
}

// ReportBiometric godoc
// @Summary Report a device biometric outcome
// @Description The client device posts the result of the biometric prompt here while a biometric challenge is in flight.
// @Tags lock
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body BiometricResultRequest true "Biometric outcome"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /lock/sessions/{id}/biometric [post]
func (h *LockHandler) ReportBiometric(c *gin.Context) {
	var req BiometricResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	id := c.Param("id")
	delivered := h.manager.ReportBiometric(id, biometric.Result{
		Success:           req.Success,
		FallbackRequested: req.FallbackRequested,
	})
	gate, ok := h.manager.Gate(id)
	if !ok {
		respondWithError(c, errors.ErrSessionNotFound)
		return
	}
	if !delivered {
		respondWithError(c, errors.WithMessage(errors.ErrInvalidInput, "No biometric challenge is in progress"))
		return
	}

	// The outcome is applied before ReportBiometric returns, so this
	// read reflects the transition.
	state := gate.State()
	resp := SessionResponse{SessionID: id, State: string(state)}
	if state == authgate.StateUnlocked {
		token, err := middleware.IssueUnlockToken(h.jwtSecret, id, h.tokenTTL)
		if err != nil {
			respondWithError(c, errors.Wrap(errors.ErrInternalServer, err))
			return
		}
		resp.Token = token
	}
	c.JSON(http.StatusOK, resp)
}

// RetryBiometric godoc
// @Summary Restart the biometric challenge
// @Tags lock
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /lock/sessions/{id}/biometric/retry [post]
func (h *LockHandler) RetryBiometric(c *gin.Context) {
	gate, ok := h.manager.Gate(c.Param("id"))
	if !ok {
		respondWithError(c, errors.ErrSessionNotFound)
		return
	}

	if err := gate.RetryBiometric(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		SessionID: c.Param("id"),
		State:     string(gate.State()),
	})
}

// CloseSession godoc
// @Summary Close a lock session
// @Tags lock
// @Param id path string true "Session ID"
// @Success 204
// @Router /lock/sessions/{id} [delete]
func (h *LockHandler) CloseSession(c *gin.Context) {
	h.manager.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// PinStatus godoc
// @Summary Report whether a PIN is configured
// @Tags pin
// @Produce json
// @Success 200 {object} PinStatusResponse
// @Router /pin [get]
func (h *LockHandler) PinStatus(c *gin.Context) {
	enabled, err := h.credentials.Enabled()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, PinStatusResponse{Enabled: enabled})
}

// SetPin godoc
// @Summary Set the PIN
// @Tags pin
// @Accept json
// @Produce json
// @Param request body SetPinRequest true "New PIN"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /pin [post]
func (h *LockHandler) SetPin(c *gin.Context) {
	var req SetPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}
	if err := h.credentials.Set(req.Pin, req.Confirm); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePin godoc
// @Summary Change the PIN
// @Tags pin
// @Accept json
// @Produce json
// @Param request body ChangePinRequest true "Current and new PIN"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /pin [put]
func (h *LockHandler) ChangePin(c *gin.Context) {
	var req ChangePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}
	if err := h.credentials.Change(req.Current, req.Pin, req.Confirm); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DisablePin godoc
// @Summary Disable the PIN
// @Tags pin
// @Accept json
// @Produce json
// @Param request body DisablePinRequest true "Current PIN"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /pin [delete]
func (h *LockHandler) DisablePin(c *gin.Context) {
	var req DisablePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}
	if err := h.credentials.Disable(req.Current); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
