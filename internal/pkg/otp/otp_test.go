package otp

import (
	"strings"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
)

func TestTOTP(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("generated code validates at the same time", func(t *testing.T) {
		// Arrange
		o := NewTOTP("twofa-test", 30, 1, libOTP.DigitsSix)
		secret, _, err := o.Generate("alice")
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		// Act
		code, err := o.GenerateCode(secret, at)
		if err != nil {
			t.Fatalf("generate code failed: %v", err)
		}

		// Assert
		if !o.Validate(code, secret, at) {
			t.Fatalf("code %q must validate", code)
		}
	})

	t.Run("code from a distant window is rejected", func(t *testing.T) {
		o := NewTOTP("twofa-test", 30, 1, libOTP.DigitsSix)
		secret, _, err := o.Generate("alice")
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		code, err := o.GenerateCode(secret, at)
		if err != nil {
			t.Fatalf("generate code failed: %v", err)
		}

		if o.Validate(code, secret, at.Add(5*time.Minute)) {
			t.Fatalf("code must expire outside the skew window")
		}
	})

	t.Run("uri carries issuer, account and secret", func(t *testing.T) {
		// Arrange
		o := NewTOTP("twofa-test", 30, 1, libOTP.DigitsSix)

		// Act
		uri := o.URI("alice", "JBSWY3DPEHPK3PXP")

		// Assert
		key, err := libOTP.NewKeyFromURL(uri)
		if err != nil {
			t.Fatalf("uri does not parse: %v", err)
		}
		if key.Secret() != "JBSWY3DPEHPK3PXP" {
			t.Fatalf("unexpected secret %q", key.Secret())
		}
		if key.Issuer() != "twofa-test" {
			t.Fatalf("unexpected issuer %q", key.Issuer())
		}
		if !strings.HasPrefix(uri, "otpauth://totp/") {
			t.Fatalf("unexpected scheme in %q", uri)
		}
	})

	t.Run("uri round trips into a valid code", func(t *testing.T) {
		// Arrange
		o := NewTOTP("twofa-test", 30, 1, libOTP.DigitsSix)
		secret, _, err := o.Generate("alice")
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		// Act
		key, err := libOTP.NewKeyFromURL(o.URI("alice", secret))
		if err != nil {
			t.Fatalf("uri does not parse: %v", err)
		}
		code, err := o.GenerateCode(key.Secret(), at)
		if err != nil {
			t.Fatalf("generate code failed: %v", err)
		}

		// Assert
		if !o.Validate(code, secret, at) {
			t.Fatalf("code from uri secret must validate against the original")
		}
	})
}
