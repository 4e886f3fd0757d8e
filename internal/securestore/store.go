// Package securestore provides encrypted key-value storage for sensitive
// values such as the PIN credential. Values are sealed with AES-256-GCM
// before they are written to the database.
package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Store is an encrypted key-value store.
type Store interface {
	// Get returns the plaintext value for key. The second return value
	// reports whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type gormStore struct {
	db   *gorm.DB
	aead cipher.AEAD
}

// New creates a Store backed by the given database. The key must be 32
// bytes (AES-256).
func New(db *gorm.DB, key []byte) (Store, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("securestore: key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("securestore: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("securestore: %w", err)
	}
	return &gormStore{db: db, aead: aead}, nil
}

func (s *gormStore) Get(key string) (string, bool, error) {
	var item models.SecureItem
	err := s.db.Where("key = ?", key).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("securestore: read %q: %w", key, err)
	}
	plaintext, err := s.open(item.Value)
	if err != nil {
		return "", false, fmt.Errorf("securestore: decrypt %q: %w", key, err)
	}
	return plaintext, true, nil
}

func (s *gormStore) Set(key, value string) error {
	sealed, err := s.seal(value)
	if err != nil {
		return fmt.Errorf("securestore: encrypt %q: %w", key, err)
	}

	var item models.SecureItem
	err = s.db.Where("key = ?", key).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		item = models.SecureItem{Key: key, Value: sealed}
		if err := s.db.Create(&item).Error; err != nil {
			return fmt.Errorf("securestore: write %q: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("securestore: read %q: %w", key, err)
	}

	item.Value = sealed
	if err := s.db.Save(&item).Error; err != nil {
		return fmt.Errorf("securestore: write %q: %w", key, err)
	}
	return nil
}

func (s *gormStore) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&models.SecureItem{}).Error; err != nil {
		return fmt.Errorf("securestore: delete %q: %w", key, err)
	}
	return nil
}

// seal encrypts plaintext and returns base64(nonce || ciphertext).
func (s *gormStore) seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *gormStore) open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(sealed) < s.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
