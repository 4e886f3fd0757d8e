// Package services contains the business logic layer of the fintrack API.
package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// CredentialServicer manages the PIN credential lifecycle.
type CredentialServicer interface {
	// Enabled reports whether a PIN credential exists.
	Enabled() (bool, error)
	// Set creates the PIN credential. The new PIN and its confirmation
	// are validated before the store is consulted.
	Set(pin, confirm string) error
	// Change replaces the PIN after verifying the current one.
	Change(current, newPin, confirm string) error
	// Disable removes the PIN credential after verifying it.
	Disable(current string) error
	// Verify checks a PIN attempt against the stored credential.
	Verify(pin string) error
}

// SettingsServicer reads and writes the user settings record.
type SettingsServicer interface {
	// Load returns the current settings, falling back to defaults when
	// nothing has been saved yet.
	Load() (models.UserSettings, error)
	// Save persists a fully populated settings record.
	Save(settings models.UserSettings) error
}

// AlertServicer evaluates alert rules and manages recurring reminders.
type AlertServicer interface {
	// EvaluateTransaction runs post-persist alert rules for a newly
	// recorded transaction. Failures are logged, never returned.
	EvaluateTransaction(tx *models.Transaction)
	// ReconcileSchedules aligns recurring reminders with the current
	// settings, scheduling or cancelling the monthly summary as needed.
	ReconcileSchedules() error
}

// TransactionFilter narrows a transaction listing. Amount bounds are in
// paise and inclusive.
type TransactionFilter struct {
	Type      string
	Mode      string
	Category  string
	From      *time.Time
	To        *time.Time
	MinAmount *int64
	MaxAmount *int64
}

// CreateTransactionInput carries validated fields for a new transaction.
type CreateTransactionInput struct {
	Type          models.TransactionType
	Mode          models.PaymentMode
	Category      string
	Amount        int64
	Date          time.Time
	Note          string
	AttachmentURL *string
}

// UpdateTransactionInput carries optional fields for a transaction update.
// Nil fields are left unchanged.
type UpdateTransactionInput struct {
	Type          *models.TransactionType
	Mode          *models.PaymentMode
	Category      *string
	Amount        *int64
	Date          *time.Time
	Note          *string
	AttachmentURL *string
}

// CategoryTotal is one category's spending within a summary period.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// MonthlySummary aggregates one calendar month of activity. Categories
// breaks expenses down per category, largest first.
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Net          int64           `json:"net"`
	Count        int64           `json:"count"`
	Categories   []CategoryTotal `json:"categories"`
}

// TransactionServicer manages transaction records and their balance
// side effects.
type TransactionServicer interface {
	Create(input CreateTransactionInput) (*models.Transaction, error)
	GetByID(id string) (*models.Transaction, error)
	List(filter TransactionFilter, page pagination.PageRequest) (pagination.PageResponse[models.Transaction], error)
	Update(id string, input UpdateTransactionInput) (*models.Transaction, error)
	Delete(id string) error
	Summary(year, month int) (MonthlySummary, error)
}

// BalanceServicer reads the per-mode balance aggregates.
type BalanceServicer interface {
	// All returns one Balance per payment mode, creating zero rows for
	// modes with no activity yet.
	All() ([]models.Balance, error)
	// Total returns the combined current balance across all modes.
	Total() (int64, error)
}

// Backup is the portable snapshot format for backup and restore.
type Backup struct {
	Transactions []models.Transaction `json:"transactions"`
	BackupDate   time.Time            `json:"backupDate"`
	Version      int                  `json:"version"`
}

// ExportServicer produces CSV exports and JSON backups.
type ExportServicer interface {
	// ExportCSV renders all transactions as CSV.
	ExportCSV() ([]byte, error)
	// CreateBackup snapshots all transactions.
	CreateBackup() (*Backup, error)
	// RestoreBackup replaces all transactions with the backup contents
	// and rebuilds balances.
	RestoreBackup(backup *Backup) (int, error)
}
