package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/securestore"
	"fintrack/internal/testutil"

	"gorm.io/gorm"
)

func newTestSettingsService(t *testing.T, db *gorm.DB) SettingsServicer {
	t.Helper()
	store, err := securestore.New(db, testutil.TestStoreKey)
	testutil.AssertNoError(t, err)
	return NewSettingsService(store)
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults_when_nothing_saved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestSettingsService(t, db)

		settings, err := svc.Load()
		testutil.AssertNoError(t, err)

		if settings.BiometricEnabled {
			t.Error("expected biometric disabled by default")
		}
		if !settings.MonthlySummaryAlerts || !settings.LargeTransactionAlerts || !settings.LowBalanceAlerts {
			t.Error("expected all alerts enabled by default")
		}
		if settings.LargeTransactionThreshold != models.DefaultLargeTransactionThreshold {
			t.Errorf("expected default large transaction threshold %d, got %d",
				models.DefaultLargeTransactionThreshold, settings.LargeTransactionThreshold)
		}
		if settings.LowBalanceThreshold != models.DefaultLowBalanceThreshold {
			t.Errorf("expected default low balance threshold %d, got %d",
				models.DefaultLowBalanceThreshold, settings.LowBalanceThreshold)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestSettingsService(t, db)

		saved := models.UserSettings{
			BiometricEnabled:          true,
			MonthlySummaryAlerts:      false,
			LargeTransactionAlerts:    true,
			LargeTransactionThreshold: 50000,
			LowBalanceAlerts:          false,
			LowBalanceThreshold:       2000,
		}
		testutil.AssertNoError(t, svc.Save(saved))

		loaded, err := svc.Load()
		testutil.AssertNoError(t, err)
		if loaded != saved {
			t.Errorf("expected %+v, got %+v", saved, loaded)
		}
	})

	t.Run("save_survives_fresh_service", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestSettingsService(t, db)

		saved := models.DefaultSettings()
		saved.BiometricEnabled = true
		testutil.AssertNoError(t, svc.Save(saved))

		// A new service instance with an empty cache reads the same blob.
		fresh := newTestSettingsService(t, db)
		loaded, err := fresh.Load()
		testutil.AssertNoError(t, err)
		if !loaded.BiometricEnabled {
			t.Error("expected persisted biometric_enabled to survive reload")
		}
	})
}
