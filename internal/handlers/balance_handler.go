package handlers

import (
	"net/http"

	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// BalanceHandler exposes the per-mode balance aggregates.
type BalanceHandler struct {
	balances services.BalanceServicer
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(balances services.BalanceServicer) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// BalancesResponse lists per-mode balances and their combined total.
type BalancesResponse struct {
	Balances []models.Balance `json:"balances"`
	Total    int64            `json:"total"`
}

// GetBalances godoc
// @Summary Get balances
// @Description Returns one balance per payment mode plus the combined total, in paise.
// @Tags balances
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BalancesResponse
// @Failure 401 {object} ErrorResponse
// @Router /balances [get]
func (h *BalanceHandler) GetBalances(c *gin.Context) {
	balances, err := h.balances.All()
	if err != nil {
		respondWithError(c, err)
		return
	}
	total, err := h.balances.Total()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalancesResponse{Balances: balances, Total: total})
}
