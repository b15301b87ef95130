package mfa

import (
	"bytes"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESGCMEncryptor(t *testing.T) {
	scope := Scope{UserID: "u1", Purpose: PurposeOTPSeed}

	t.Run("round trips within the same scope", func(t *testing.T) {
		// Arrange
		e := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: testKey()})
		plaintext := []byte("JBSWY3DPEHPK3PXP")

		// Act
		sealed, err := e.Encrypt(plaintext, scope)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		opened, err := e.Decrypt(sealed, scope)

		// Assert
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Fatalf("round trip mismatch: %q != %q", opened, plaintext)
		}
	})

	t.Run("ciphertext is bound to the user", func(t *testing.T) {
		e := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: testKey()})

		sealed, err := e.Encrypt([]byte("JBSWY3DPEHPK3PXP"), scope)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}

		if _, err := e.Decrypt(sealed, Scope{UserID: "u2", Purpose: PurposeOTPSeed}); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("expected ErrDecryptFailed for another user, got %v", err)
		}
	})

	t.Run("empty plaintext is rejected", func(t *testing.T) {
		e := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: testKey()})

		if _, err := e.Encrypt(nil, scope); !errors.Is(err, ErrPlaintextEmpty) {
			t.Fatalf("expected ErrPlaintextEmpty, got %v", err)
		}
	})

	t.Run("truncated ciphertext is rejected", func(t *testing.T) {
		e := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: testKey()})

		if _, err := e.Decrypt([]byte{0, 1, 2}, scope); !errors.Is(err, ErrCiphertextTooShort) {
			t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
		}
	})
}
