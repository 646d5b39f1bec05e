package security

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func testCipher(t *testing.T) *EnvelopeCipher {
	t.Helper()
	encoded, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	key, err := DecodeKey(encoded)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	cipher, err := NewEnvelopeCipher(key)
	if err != nil {
		t.Fatalf("NewEnvelopeCipher: %v", err)
	}
	return cipher
}

func TestNewEnvelopeCipher_BadKeys(t *testing.T) {
	if _, err := NewEnvelopeCipher(nil); !errors.Is(err, ErrMissingEncryptionKey) {
		t.Errorf("nil key: error = %v, want ErrMissingEncryptionKey", err)
	}
	if _, err := NewEnvelopeCipher(make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("16-byte key: error = %v, want ErrInvalidKeySize", err)
	}
}

func TestEnvelopeCipher_RoundTrip(t *testing.T) {
	cipher := testCipher(t)
	plaintext := []byte("signed claims payload")

	sealed, err := cipher.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if sealed == "" {
		t.Fatal("Encrypt returned empty string")
	}
	// Output must be transportable as plain text.
	if _, err := base64.RawURLEncoding.DecodeString(sealed); err != nil {
		t.Fatalf("Encrypt output is not urlsafe base64: %v", err)
	}

	opened, err := cipher.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Decrypt = %q, want %q", opened, plaintext)
	}
}

func TestEnvelopeCipher_EncryptIsNonDeterministic(t *testing.T) {
	cipher := testCipher(t)
	a, _ := cipher.Encrypt([]byte("payload"))
	b, _ := cipher.Encrypt([]byte("payload"))
	if a == b {
		t.Error("two encryptions of the same plaintext should differ (fresh nonce)")
	}
}

func TestEnvelopeCipher_DecryptTamperedEveryByte(t *testing.T) {
	cipher := testCipher(t)
	sealed, err := cipher.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(sealed)
	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		s := base64.RawURLEncoding.EncodeToString(mutated)
		if _, err := cipher.Decrypt(s); !errors.Is(err, ErrUndecryptable) {
			t.Fatalf("byte %d flipped: error = %v, want ErrUndecryptable", i, err)
		}
	}
}

func TestEnvelopeCipher_DecryptWrongKey(t *testing.T) {
	a := testCipher(t)
	b := testCipher(t)
	sealed, _ := a.Encrypt([]byte("payload"))
	if _, err := b.Decrypt(sealed); !errors.Is(err, ErrUndecryptable) {
		t.Fatalf("Decrypt with wrong key: error = %v, want ErrUndecryptable", err)
	}
}

func TestEnvelopeCipher_DecryptMalformed(t *testing.T) {
	cipher := testCipher(t)
	for _, s := range []string{"", "!!!not-base64!!!", "c2hvcnQ"} {
		if _, err := cipher.Decrypt(s); !errors.Is(err, ErrUndecryptable) {
			t.Errorf("Decrypt(%q): error = %v, want ErrUndecryptable", s, err)
		}
	}
}

func TestDecodeKey(t *testing.T) {
	if _, err := DecodeKey(""); !errors.Is(err, ErrMissingEncryptionKey) {
		t.Errorf("empty: error = %v, want ErrMissingEncryptionKey", err)
	}
	if _, err := DecodeKey("dG9vLXNob3J0"); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short key: error = %v, want ErrInvalidKeySize", err)
	}

	encoded, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	key, err := DecodeKey(encoded)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("key length = %d, want %d", len(key), KeySize)
	}

	// Unpadded form of the same key must decode too.
	unpadded := base64.RawURLEncoding.EncodeToString(key)
	key2, err := DecodeKey(unpadded)
	if err != nil {
		t.Fatalf("DecodeKey unpadded: %v", err)
	}
	if !bytes.Equal(key, key2) {
		t.Error("padded and unpadded decodings differ")
	}
}
