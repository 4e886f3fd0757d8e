package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// PaymentMode represents where the money moved: physical cash or a bank account.
type PaymentMode string

const (
	PaymentModeCash PaymentMode = "cash"
	PaymentModeBank PaymentMode = "bank"
)

// Transaction represents a recorded income or expense entry.
// Amount is stored in paise (minor currency units).
type Transaction struct {
	Base
	Type          TransactionType `gorm:"not null" json:"type"`
	Mode          PaymentMode     `gorm:"not null" json:"mode"`
	Category      string          `gorm:"not null" json:"category"`
	Amount        int64           `gorm:"type:bigint;not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Note          string          `json:"note"`
	AttachmentURL *string         `json:"attachment_url,omitempty"`
}
