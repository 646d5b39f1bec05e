package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrUndecryptable is returned when an envelope cannot be opened: corrupted
// ciphertext, wrong key, or malformed input. Callers get no detail beyond
// this single error.
var ErrUndecryptable = errors.New("cannot decrypt token envelope")

// EnvelopeCipher wraps signed claims in AES-256-GCM authenticated encryption,
// producing an opaque urlsafe string. The key is process-wide, loaded once at
// startup. Stateless and safe for concurrent use.
type EnvelopeCipher struct {
	aead cipher.AEAD
}

// NewEnvelopeCipher returns a cipher keyed with the given 256-bit key.
// Returns ErrMissingEncryptionKey or ErrInvalidKeySize on bad key material;
// callers treat both as fatal misconfiguration at startup.
func NewEnvelopeCipher(key []byte) (*EnvelopeCipher, error) {
	if len(key) == 0 {
		return nil, ErrMissingEncryptionKey
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &EnvelopeCipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns
// base64url(nonce || ciphertext), safe to hand out as a bearer credential.
func (e *EnvelopeCipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. Bad encoding, truncated
// input, and failed authentication all yield ErrUndecryptable.
func (e *EnvelopeCipher) Decrypt(s string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrUndecryptable
	}
	ns := e.aead.NonceSize()
	if len(raw) <= ns {
		return nil, ErrUndecryptable
	}
	plaintext, err := e.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrUndecryptable
	}
	return plaintext, nil
}
