package hash

import "testing"

func TestBcrypt(t *testing.T) {
	t.Run("hash verifies its own plaintext", func(t *testing.T) {
		// Arrange
		h := NewBcrypt(4, "pepper")

		// Act
		stored, err := h.Hash("Secret123!")

		// Assert
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}
		if !h.Verify(string(stored), "Secret123!") {
			t.Fatalf("expected plaintext to verify")
		}
	})

	t.Run("wrong plaintext is rejected", func(t *testing.T) {
		h := NewBcrypt(4, "pepper")

		stored, err := h.Hash("Secret123!")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}

		if h.Verify(string(stored), "Secret124!") {
			t.Fatalf("wrong plaintext must not verify")
		}
	})

	t.Run("pepper changes the verification outcome", func(t *testing.T) {
		a := NewBcrypt(4, "pepper-a")
		b := NewBcrypt(4, "pepper-b")

		stored, err := a.Hash("Secret123!")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}

		if b.Verify(string(stored), "Secret123!") {
			t.Fatalf("verification must fail with a different pepper")
		}
	})
}

func TestPlain(t *testing.T) {
	t.Run("stores plaintext unchanged", func(t *testing.T) {
		h := NewPlain()

		stored, err := h.Hash("Secret123!")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}

		if string(stored) != "Secret123!" {
			t.Fatalf("expected identity hash, got %q", stored)
		}
	})

	t.Run("verifies exact match only", func(t *testing.T) {
		h := NewPlain()

		if !h.Verify("Secret123!", "Secret123!") {
			t.Fatalf("expected exact match to verify")
		}
		if h.Verify("Secret123!", "Secret123") {
			t.Fatalf("prefix must not verify")
		}
		if h.Verify("Secret123!", "") {
			t.Fatalf("empty plaintext must not verify")
		}
	})
}
