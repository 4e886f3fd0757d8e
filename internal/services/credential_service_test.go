package services

import (
	"testing"

	"fintrack/internal/securestore"
	"fintrack/internal/testutil"

	"gorm.io/gorm"
)

func newTestCredentialService(t *testing.T, db *gorm.DB) CredentialServicer {
	t.Helper()
	store, err := securestore.New(db, testutil.TestStoreKey)
	testutil.AssertNoError(t, err)
	return NewCredentialService(store)
}

func TestSetPin(t *testing.T) {
	t.Run("sets_and_verifies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)

		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		enabled, err := svc.Enabled()
		testutil.AssertNoError(t, err)
		if !enabled {
			t.Error("expected credential to be enabled")
		}
		testutil.AssertNoError(t, svc.Verify("1234"))
	})

	t.Run("too_short", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)

		err := svc.Set("123", "123")
		testutil.AssertAppError(t, err, "PIN_TOO_SHORT")
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)

		err := svc.Set("1234", "4321")
		testutil.AssertAppError(t, err, "PIN_MISMATCH")
	})

	t.Run("non_digit_pin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)

		err := svc.Set("12ab", "12ab")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

// countingStore wraps a Store and counts reads.
type countingStore struct {
	securestore.Store
	gets int
}

func (s *countingStore) Get(key string) (string, bool, error) {
	s.gets++
	return s.Store.Get(key)
}

func TestVerifyPin(t *testing.T) {
	t.Run("incorrect_pin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		err := svc.Verify("9999")
		testutil.AssertAppError(t, err, "INCORRECT_PIN")
	})

	t.Run("no_pin_configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)

		err := svc.Verify("1234")
		testutil.AssertAppError(t, err, "PIN_NOT_SET")
	})

	t.Run("short_pin_rejected_without_store_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		inner, err := securestore.New(db, testutil.TestStoreKey)
		testutil.AssertNoError(t, err)
		store := &countingStore{Store: inner}
		svc := NewCredentialService(store)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))
		store.gets = 0

		verifyErr := svc.Verify("12")
		testutil.AssertAppError(t, verifyErr, "PIN_TOO_SHORT")
		if store.gets != 0 {
			t.Errorf("expected no store reads for a short PIN, got %d", store.gets)
		}
	})
}

func TestChangePin(t *testing.T) {
	t.Run("changes_after_verifying_current", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		testutil.AssertNoError(t, svc.Change("1234", "5678", "5678"))

		testutil.AssertAppError(t, svc.Verify("1234"), "INCORRECT_PIN")
		testutil.AssertNoError(t, svc.Verify("5678"))
	})

	t.Run("rejects_wrong_current", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		err := svc.Change("0000", "5678", "5678")
		testutil.AssertAppError(t, err, "INCORRECT_PIN")

		// Old PIN still works.
		testutil.AssertNoError(t, svc.Verify("1234"))
	})

	t.Run("rejects_short_replacement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		err := svc.Change("1234", "12", "12")
		testutil.AssertAppError(t, err, "PIN_TOO_SHORT")
	})
}

func TestDisablePin(t *testing.T) {
	t.Run("removes_credential", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		testutil.AssertNoError(t, svc.Disable("1234"))

		enabled, err := svc.Enabled()
		testutil.AssertNoError(t, err)
		if enabled {
			t.Error("expected credential to be disabled")
		}
	})

	t.Run("rejects_wrong_pin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCredentialService(t, db)
		testutil.AssertNoError(t, svc.Set("1234", "1234"))

		err := svc.Disable("0000")
		testutil.AssertAppError(t, err, "INCORRECT_PIN")
	})
}
