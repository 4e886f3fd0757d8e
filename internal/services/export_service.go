package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// backupVersion is the current backup format version. Restores reject
// versions newer than this.
const backupVersion = 1

type exportService struct {
	db *gorm.DB
}

// NewExportService creates a new export service.
func NewExportService(db *gorm.DB) ExportServicer {
	return &exportService{db: db}
}

func (s *exportService) ExportCSV() ([]byte, error) {
	transactions, err := s.allTransactions()
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errors.ErrNoTransactions
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "date", "type", "mode", "category", "amount", "note"}
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	for _, t := range transactions {
		record := []string{
			t.ID,
			t.Date.Format("2006-01-02"),
			string(t.Type),
			string(t.Mode),
			t.Category,
			strconv.FormatInt(t.Amount, 10),
			t.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(errors.ErrInternalServer, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("CSV export generated", "transactions", len(transactions))
	return buf.Bytes(), nil
}

func (s *exportService) CreateBackup() (*Backup, error) {
	transactions, err := s.allTransactions()
	if err != nil {
		return nil, err
	}
	return &Backup{
		Transactions: transactions,
		BackupDate:   time.Now().UTC(),
		Version:      backupVersion,
	}, nil
}

// RestoreBackup replaces all transactions with the backup contents and
// rebuilds the balance aggregates from scratch. Returns the number of
// restored transactions.
func (s *exportService) RestoreBackup(backup *Backup) (int, error) {
	if backup == nil || backup.Version < 1 || backup.Version > backupVersion {
		return 0, errors.ErrInvalidBackup
	}
	for i := range backup.Transactions {
		t := &backup.Transactions[i]
		if err := validateTypeAndMode(t.Type, t.Mode); err != nil {
			return 0, errors.ErrInvalidBackup
		}
		if t.Amount <= 0 {
			return 0, errors.ErrInvalidBackup
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Balance{}).Error; err != nil {
			return err
		}
		for i := range backup.Transactions {
			t := &backup.Transactions[i]
			if err := tx.Create(t).Error; err != nil {
				return err
			}
			if err := applyToBalance(tx, t, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("backup restored", "transactions", len(backup.Transactions))
	return len(backup.Transactions), nil
}

func (s *exportService) allTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.Order("date ASC, created_at ASC").Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return transactions, nil
}
