package services

import (
	"encoding/json"
	"sync"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/securestore"
)

// settingsKey is the secure store key holding the settings JSON blob.
const settingsKey = "user_settings"

type settingsService struct {
	store securestore.Store

	mu     sync.RWMutex
	cached *models.UserSettings
}

// NewSettingsService creates a new settings service backed by the given
// secure store. Reads are cached until the next save.
func NewSettingsService(store securestore.Store) SettingsServicer {
	return &settingsService{store: store}
}

func (s *settingsService) Load() (models.UserSettings, error) {
	s.mu.RLock()
	if s.cached != nil {
		settings := *s.cached
		s.mu.RUnlock()
		return settings, nil
	}
	s.mu.RUnlock()

	raw, ok, err := s.store.Get(settingsKey)
	if err != nil {
		return models.UserSettings{}, errors.Wrap(errors.ErrInternalServer, err)
	}

	settings := models.DefaultSettings()
	if ok {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			// A corrupt blob falls back to defaults rather than locking
			// the user out of their settings.
			logger.Get().Errorw("settings blob corrupt, using defaults", "error", err)
			settings = models.DefaultSettings()
		}
	}

	s.mu.Lock()
	s.cached = &settings
	s.mu.Unlock()
	return settings, nil
}

func (s *settingsService) Save(settings models.UserSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	if err := s.store.Set(settingsKey, string(raw)); err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	s.mu.Lock()
	s.cached = &settings
	s.mu.Unlock()

	logger.Get().Infow("settings saved",
		"biometric_enabled", settings.BiometricEnabled,
		"monthly_summary_alerts", settings.MonthlySummaryAlerts,
		"large_transaction_alerts", settings.LargeTransactionAlerts,
		"low_balance_alerts", settings.LowBalanceAlerts)
	return nil
}
