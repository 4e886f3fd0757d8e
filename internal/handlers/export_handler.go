package handlers

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// ExportHandler exposes CSV export and JSON backup/restore.
type ExportHandler struct {
	exports services.ExportServicer
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exports services.ExportServicer) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RestoreResponse reports the result of a restore.
type RestoreResponse struct {
	Restored int `json:"restored"`
}

// ExportCSV godoc
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} ErrorResponse
// @Router /export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, err := h.exports.ExportCSV()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// CreateBackup godoc
// @Summary Create a JSON backup
// @Tags export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Backup
// @Router /backup [get]
func (h *ExportHandler) CreateBackup(c *gin.Context) {
	backup, err := h.exports.CreateBackup()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, backup)
}

// RestoreBackup godoc
// @Summary Restore from a JSON backup
// @Description Replaces all transactions with the backup contents and rebuilds balances.
// @Tags export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.Backup true "Backup"
// @Success 200 {object} RestoreResponse
// @Failure 400 {object} ErrorResponse
// @Router /backup/restore [post]
func (h *ExportHandler) RestoreBackup(c *gin.Context) {
	var backup services.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		respondWithError(c, errors.ErrInvalidBackup)
		return
	}

	restored, err := h.exports.RestoreBackup(&backup)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RestoreResponse{Restored: restored})
}
