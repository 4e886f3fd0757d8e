package models

// SecureItem is a single encrypted key-value entry in the secure settings
// store. Value holds the AES-GCM ciphertext, base64-encoded.
type SecureItem struct {
	Base
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `gorm:"not null" json:"-"`
}
