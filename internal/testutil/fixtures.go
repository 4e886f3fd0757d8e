package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestTransaction creates an expense transaction with the given
// amount in paise.
func CreateTestTransaction(t *testing.T, db *gorm.DB, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionWith(t, db, models.TransactionTypeExpense, models.PaymentModeCash, amount)
}

// CreateTestTransactionWith creates a transaction with the given type,
// mode and amount. The category is unique per call.
func CreateTestTransactionWith(t *testing.T, db *gorm.DB, txType models.TransactionType, mode models.PaymentMode, amount int64) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Type:     txType,
		Mode:     mode,
		Category: fmt.Sprintf("category%d", nextID()),
		Amount:   amount,
		Date:     time.Now(),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBalance creates a balance row for the given mode.
func CreateTestBalance(t *testing.T, db *gorm.DB, mode models.PaymentMode, current int64) *models.Balance {
	t.Helper()

	balance := &models.Balance{
		Mode:           mode,
		CurrentBalance: current,
	}
	if err := db.Create(balance).Error; err != nil {
		t.Fatalf("failed to create test balance: %v", err)
	}
	return balance
}

// TestStoreKey is a 32-byte AES key for secure store tests.
var TestStoreKey = []byte("0123456789abcdef0123456789abcdef")
