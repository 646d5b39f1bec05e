package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// KeySize is the envelope encryption key size in bytes (AES-256).
const KeySize = 32

var (
	// ErrMissingEncryptionKey is returned when no envelope encryption key is configured.
	ErrMissingEncryptionKey = errors.New("token encryption key is not set")
	// ErrInvalidKeySize is returned when the decoded key is not 256 bits.
	ErrInvalidKeySize = errors.New("token encryption key must decode to 32 bytes")
)

// DecodeKey decodes a urlsafe-base64 encoded 256-bit key, with or without padding.
// Returns ErrMissingEncryptionKey for an empty string and ErrInvalidKeySize when
// the decoded material is not exactly KeySize bytes.
func DecodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrMissingEncryptionKey
	}
	key, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		key, err = base64.RawURLEncoding.DecodeString(s)
		if err != nil {
			return nil, ErrInvalidKeySize
		}
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}

// GenerateKey returns a fresh random 256-bit key, urlsafe-base64 encoded,
// suitable for the TOKEN_ENCRYPTION_KEY setting.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
