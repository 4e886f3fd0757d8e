package models

// Balance is the per-mode running aggregate maintained alongside
// transaction writes. One row per payment mode; all amounts in paise.
type Balance struct {
	Base
	Mode           PaymentMode `gorm:"uniqueIndex;not null" json:"mode"`
	TotalIncome    int64       `gorm:"type:bigint;not null;default:0" json:"total_income"`
	TotalExpense   int64       `gorm:"type:bigint;not null;default:0" json:"total_expense"`
	CurrentBalance int64       `gorm:"type:bigint;not null;default:0" json:"current_balance"`
}
