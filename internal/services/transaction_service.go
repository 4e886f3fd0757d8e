package services

import (
	"time"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

type transactionService struct {
	db     *gorm.DB
	alerts AlertServicer
}

// NewTransactionService creates a new transaction service. The alert
// service may be nil; alert evaluation is then skipped.
func NewTransactionService(db *gorm.DB, alerts AlertServicer) TransactionServicer {
	return &transactionService{db: db, alerts: alerts}
}

func (s *transactionService) Create(input CreateTransactionInput) (*models.Transaction, error) {
	if err := validateTypeAndMode(input.Type, input.Mode); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "Amount must be positive")
	}

	transaction := &models.Transaction{
		Type:          input.Type,
		Mode:          input.Mode,
		Category:      input.Category,
		Amount:        input.Amount,
		Date:          input.Date,
		Note:          input.Note,
		AttachmentURL: input.AttachmentURL,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		return applyToBalance(tx, transaction, 1)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("transaction created",
		"id", transaction.ID, "type", transaction.Type, "mode", transaction.Mode, "amount", transaction.Amount)

	// Alert rules run after the write has committed so a notification
	// failure can never lose a transaction.
	if s.alerts != nil {
		s.alerts.EvaluateTransaction(transaction)
	}
	return transaction, nil
}

func (s *transactionService) GetByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Where("id = ?", id).First(&transaction).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func (s *transactionService) List(filter TransactionFilter, page pagination.PageRequest) (pagination.PageResponse[models.Transaction], error) {
	page.Normalize()

	query := s.db.Model(&models.Transaction{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Mode != "" {
		query = query.Where("mode = ?", filter.Mode)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pagination.PageResponse[models.Transaction]{}, errors.Wrap(errors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := query.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return pagination.PageResponse[models.Transaction]{}, errors.Wrap(errors.ErrInternalServer, err)
	}

	return pagination.NewPageResponse(transactions, page.Page, page.PageSize, total), nil
}

func (s *transactionService) Update(id string, input UpdateTransactionInput) (*models.Transaction, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if input.Type != nil {
		updated.Type = *input.Type
	}
	if input.Mode != nil {
		updated.Mode = *input.Mode
	}
	if input.Category != nil {
		updated.Category = *input.Category
	}
	if input.Amount != nil {
		updated.Amount = *input.Amount
	}
	if input.Date != nil {
		updated.Date = *input.Date
	}
	if input.Note != nil {
		updated.Note = *input.Note
	}
	if input.AttachmentURL != nil {
		updated.AttachmentURL = input.AttachmentURL
	}

	if err := validateTypeAndMode(updated.Type, updated.Mode); err != nil {
		return nil, err
	}
	if updated.Amount <= 0 {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "Amount must be positive")
	}

	// Reverse the old balance effect and apply the new one in the same
	// database transaction as the row update.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := applyToBalance(tx, existing, -1); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		return applyToBalance(tx, &updated, 1)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("transaction updated", "id", id)
	return &updated, nil
}

func (s *transactionService) Delete(id string) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := applyToBalance(tx, existing, -1); err != nil {
			return err
		}
		return tx.Delete(existing).Error
	})
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("transaction deleted", "id", id)
	return nil
}

func (s *transactionService) Summary(year, month int) (MonthlySummary, error) {
	if month < 1 || month > 12 {
		return MonthlySummary{}, errors.WithMessage(errors.ErrInvalidInput, "Month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	summary := MonthlySummary{Year: year, Month: month}

	base := s.db.Model(&models.Transaction{}).Where("date >= ? AND date < ?", start, end)
	if err := base.Session(&gorm.Session{}).Count(&summary.Count).Error; err != nil {
		return MonthlySummary{}, errors.Wrap(errors.ErrInternalServer, err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("type = ?", models.TransactionTypeIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalIncome).Error; err != nil {
		return MonthlySummary{}, errors.Wrap(errors.ErrInternalServer, err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("type = ?", models.TransactionTypeExpense).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalExpense).Error; err != nil {
		return MonthlySummary{}, errors.Wrap(errors.ErrInternalServer, err)
	}

	err := base.Session(&gorm.Session{}).
		Where("type = ?", models.TransactionTypeExpense).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&summary.Categories).Error
	if err != nil {
		return MonthlySummary{}, errors.Wrap(errors.ErrInternalServer, err)
	}

	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

func validateTypeAndMode(txType models.TransactionType, mode models.PaymentMode) error {
	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return errors.ErrInvalidTransactionType
	}
	switch mode {
	case models.PaymentModeCash, models.PaymentModeBank:
	default:
		return errors.ErrInvalidPaymentMode
	}
	return nil
}

// applyToBalance adjusts the aggregate row for the transaction's payment
// mode. sign is +1 to apply and -1 to reverse.
func applyToBalance(tx *gorm.DB, transaction *models.Transaction, sign int64) error {
	balance, err := balanceForMode(tx, transaction.Mode)
	if err != nil {
		return err
	}

	amount := transaction.Amount * sign
	switch transaction.Type {
	case models.TransactionTypeIncome:
		balance.TotalIncome += amount
		balance.CurrentBalance += amount
	case models.TransactionTypeExpense:
		balance.TotalExpense += amount
		balance.CurrentBalance -= amount
	}
	return tx.Save(balance).Error
}

// balanceForMode loads the aggregate row for mode, creating a zero row
// on first use.
func balanceForMode(tx *gorm.DB, mode models.PaymentMode) (*models.Balance, error) {
	var balance models.Balance
	err := tx.Where("mode = ?", mode).First(&balance).Error
	if err == gorm.ErrRecordNotFound {
		balance = models.Balance{Mode: mode}
		if err := tx.Create(&balance).Error; err != nil {
			return nil, err
		}
		return &balance, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}
