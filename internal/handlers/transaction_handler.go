package handlers

import (
	"net/http"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes transaction CRUD and the monthly summary.
type TransactionHandler struct {
	transactions services.TransactionServicer
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(transactions services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// CreateTransactionRequest carries a new transaction. Amount is in paise.
type CreateTransactionRequest struct {
	Type          string    `json:"type" binding:"required,transaction_type"`
	Mode          string    `json:"mode" binding:"required,payment_mode"`
	Category      string    `json:"category" binding:"required"`
	Amount        int64     `json:"amount" binding:"required,min=1"`
	Date          time.Time `json:"date" binding:"required"`
	Note          string    `json:"note"`
	AttachmentURL *string   `json:"attachment_url"`
}

// UpdateTransactionRequest carries a partial transaction update. Omitted
// fields are left unchanged.
type UpdateTransactionRequest struct {
	Type          *string    `json:"type" binding:"omitempty,transaction_type"`
	Mode          *string    `json:"mode" binding:"omitempty,payment_mode"`
	Category      *string    `json:"category"`
	Amount        *int64     `json:"amount" binding:"omitempty,min=1"`
	Date          *time.Time `json:"date"`
	Note          *string    `json:"note"`
	AttachmentURL *string    `json:"attachment_url"`
}

// ListTransactionsQuery holds list filters and pagination. Amount bounds
// are in paise.
type ListTransactionsQuery struct {
	pagination.PageRequest
	Type      string `form:"type" binding:"omitempty,transaction_type"`
	Mode      string `form:"mode" binding:"omitempty,payment_mode"`
	Category  string `form:"category"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	MinAmount *int64 `form:"min_amount" binding:"omitempty,min=1"`
	MaxAmount *int64 `form:"max_amount" binding:"omitempty,min=1"`
}

// SummaryQuery selects the month to summarize.
type SummaryQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=2200"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	transaction, err := h.transactions.Create(services.CreateTransactionInput{
		Type:          models.TransactionType(req.Type),
		Mode:          models.PaymentMode(req.Mode),
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          req.Date,
		Note:          req.Note,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transaction, err := h.transactions.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// ListTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first, with optional type, mode, category, date range and amount range filters.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param type query string false "Transaction type (income or expense)"
// @Param mode query string false "Payment mode (cash or bank)"
// @Param category query string false "Category"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param min_amount query int false "Minimum amount in paise (inclusive)"
// @Param max_amount query int false "Maximum amount in paise (inclusive)"
// @Success 200 {object} pagination.PageResponse[models.Transaction]
// @Failure 400 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithValidationError(c, err)
		return
	}

	filter := services.TransactionFilter{
		Type:      query.Type,
		Mode:      query.Mode,
		Category:  query.Category,
		MinAmount: query.MinAmount,
		MaxAmount: query.MaxAmount,
	}
	if query.From != "" {
		from, _ := time.Parse("2006-01-02", query.From)
		filter.From = &from
	}
	if query.To != "" {
		to, _ := time.Parse("2006-01-02", query.To)
		// Include the whole end day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	page, err := h.transactions.List(filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	input := services.UpdateTransactionInput{
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          req.Date,
		Note:          req.Note,
		AttachmentURL: req.AttachmentURL,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		input.Type = &t
	}
	if req.Mode != nil {
		m := models.PaymentMode(*req.Mode)
		input.Mode = &m
	}

	transaction, err := h.transactions.Update(c.Param("id"), input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.transactions.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Get a monthly summary
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} services.MonthlySummary
// @Failure 400 {object} ErrorResponse
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	var query SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithValidationError(c, err)
		return
	}

	summary, err := h.transactions.Summary(query.Year, query.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
