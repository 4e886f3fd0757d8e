package services

import (
	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/securestore"

	"golang.org/x/crypto/bcrypt"
)

// pinCredentialKey is the secure store key holding the bcrypt PIN hash.
const pinCredentialKey = "pin_credential"

// minPinLength is the minimum number of digits in a PIN.
const minPinLength = 4

type credentialService struct {
	store securestore.Store
}

// NewCredentialService creates a new credential service backed by the
// given secure store.
func NewCredentialService(store securestore.Store) CredentialServicer {
	return &credentialService{store: store}
}

func (s *credentialService) Enabled() (bool, error) {
	_, ok, err := s.store.Get(pinCredentialKey)
	if err != nil {
		return false, errors.Wrap(errors.ErrInternalServer, err)
	}
	return ok, nil
}

func (s *credentialService) Set(pin, confirm string) error {
	// Input validation runs before the store is consulted, so a short
	// PIN is rejected even when the store is unavailable.
	if err := validatePin(pin); err != nil {
		return err
	}
	if pin != confirm {
		return errors.ErrPinMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	if err := s.store.Set(pinCredentialKey, string(hash)); err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Info("PIN credential set")
	return nil
}

func (s *credentialService) Change(current, newPin, confirm string) error {
	if err := s.Verify(current); err != nil {
		return err
	}
	return s.Set(newPin, confirm)
}

func (s *credentialService) Disable(current string) error {
	if err := s.Verify(current); err != nil {
		return err
	}
	if err := s.store.Delete(pinCredentialKey); err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Info("PIN credential disabled")
	return nil
}

func (s *credentialService) Verify(pin string) error {
	// A PIN that cannot possibly match is rejected before the store is
	// read, with the same distinct error the lifecycle operations use.
	if len(pin) < minPinLength {
		return errors.ErrPinTooShort
	}

	hash, ok, err := s.store.Get(pinCredentialKey)
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	if !ok {
		return errors.ErrPinNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return errors.ErrIncorrectPin
	}
	return nil
}

func validatePin(pin string) error {
	if len(pin) < minPinLength {
		return errors.ErrPinTooShort
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errors.WithMessage(errors.ErrInvalidInput, "PIN must contain only digits")
		}
	}
	return nil
}
