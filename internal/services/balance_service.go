package services

import (
	"fintrack/internal/errors"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new balance service.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

func (s *balanceService) All() ([]models.Balance, error) {
	balances := make([]models.Balance, 0, 2)
	for _, mode := range []models.PaymentMode{models.PaymentModeCash, models.PaymentModeBank} {
		balance, err := balanceForMode(s.db, mode)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInternalServer, err)
		}
		balances = append(balances, *balance)
	}
	return balances, nil
}

func (s *balanceService) Total() (int64, error) {
	var total int64
	err := s.db.Model(&models.Balance{}).
		Select("COALESCE(SUM(current_balance), 0)").Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(errors.ErrInternalServer, err)
	}
	return total, nil
}
