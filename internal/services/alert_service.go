package services

import (
	"fmt"
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/notify"

	"gorm.io/gorm"
)

// Notification kinds produced by alert rules.
const (
	alertKindLargeTransaction = "large_transaction"
	alertKindLowBalance       = "low_balance"
	alertKindMonthlySummary   = "monthly_summary"
)

type alertService struct {
	db         *gorm.DB
	settings   SettingsServicer
	dispatcher notify.Dispatcher
	// summaryHour is the hour of day the monthly summary fires on the
	// first of each month.
	summaryHour int
}

// NewAlertService creates a new alert service.
func NewAlertService(db *gorm.DB, settings SettingsServicer, dispatcher notify.Dispatcher, summaryHour int) AlertServicer {
	return &alertService{
		db:          db,
		settings:    settings,
		dispatcher:  dispatcher,
		summaryHour: summaryHour,
	}
}

// EvaluateTransaction runs the large-transaction and low-balance rules
// for a newly recorded transaction. It is called after the transaction
// has been persisted; rule failures never affect the write.
func (s *alertService) EvaluateTransaction(tx *models.Transaction) {
	settings, err := s.settings.Load()
	if err != nil {
		logger.Get().Errorw("alert evaluation skipped, settings unavailable", "error", err)
		return
	}

	// Both rules apply to every recorded transaction regardless of type.
	if settings.LargeTransactionAlerts && tx.Amount >= settings.LargeTransactionThreshold {
		s.deliver(notify.Notification{
			Kind:  alertKindLargeTransaction,
			Title: "Large transaction recorded",
			Body: fmt.Sprintf("An %s of %s was recorded in %s.",
				tx.Type, formatAmount(tx.Amount), tx.Category),
		})
	}

	if settings.LowBalanceAlerts {
		total, err := s.currentTotalBalance()
		if err != nil {
			logger.Get().Errorw("low balance check failed", "error", err)
			return
		}
		if total < settings.LowBalanceThreshold {
			s.deliver(notify.Notification{
				Kind:  alertKindLowBalance,
				Title: "Low balance",
				Body: fmt.Sprintf("Your total balance (%s) is below the threshold (%s).",
					formatAmount(total), formatAmount(settings.LowBalanceThreshold)),
			})
		}
	}
}

// ReconcileSchedules aligns the monthly summary reminder with the
// current settings. Called at startup and after every settings save.
func (s *alertService) ReconcileSchedules() error {
	settings, err := s.settings.Load()
	if err != nil {
		return err
	}

	if !settings.MonthlySummaryAlerts {
		s.dispatcher.CancelScheduled(alertKindMonthlySummary)
		return nil
	}

	// First day of every month at the configured hour.
	spec := fmt.Sprintf("0 %d 1 * *", s.summaryHour)
	return s.dispatcher.ScheduleRecurring(alertKindMonthlySummary, spec, s.buildMonthlySummary)
}

// buildMonthlySummary produces the summary notification for the month
// that just ended. Returns false when there was no activity.
func (s *alertService) buildMonthlySummary() (notify.Notification, bool) {
	prev := time.Now().AddDate(0, -1, 0)
	start := time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, prev.Location())
	end := start.AddDate(0, 1, 0)

	var income, expense int64
	if err := s.db.Model(&models.Transaction{}).
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeIncome, start, end).
		Select("COALESCE(SUM(amount), 0)").Scan(&income).Error; err != nil {
		logger.Get().Errorw("monthly summary income query failed", "error", err)
		return notify.Notification{}, false
	}
	if err := s.db.Model(&models.Transaction{}).
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeExpense, start, end).
		Select("COALESCE(SUM(amount), 0)").Scan(&expense).Error; err != nil {
		logger.Get().Errorw("monthly summary expense query failed", "error", err)
		return notify.Notification{}, false
	}

	if income == 0 && expense == 0 {
		return notify.Notification{}, false
	}

	return notify.Notification{
		Kind:  alertKindMonthlySummary,
		Title: fmt.Sprintf("Your %s summary", start.Format("January")),
		Body: fmt.Sprintf("Income %s, expenses %s, net %s.",
			formatAmount(income), formatAmount(expense), formatAmount(income-expense)),
	}, true
}

func (s *alertService) currentTotalBalance() (int64, error) {
	var total int64
	err := s.db.Model(&models.Balance{}).
		Select("COALESCE(SUM(current_balance), 0)").Scan(&total).Error
	return total, err
}

func (s *alertService) deliver(n notify.Notification) {
	if err := s.dispatcher.Deliver(n); err != nil {
		logger.Get().Errorw("alert delivery failed", "kind", n.Kind, "error", err)
	}
}

// formatAmount renders paise as a rupee string for notification bodies.
func formatAmount(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}
