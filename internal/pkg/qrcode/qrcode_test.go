package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPNG(t *testing.T) {
	t.Run("encodes content into a png", func(t *testing.T) {
		// Arrange
		e := NewPNG(DefaultSize)

		// Act
		img, err := e.Encode("otpauth://totp/test:alice?secret=JBSWY3DPEHPK3PXP")

		// Assert
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if !bytes.HasPrefix(img, pngMagic) {
			t.Fatalf("output is not a png")
		}
	})

	t.Run("data uri embeds the png", func(t *testing.T) {
		// Arrange
		e := NewPNG(DefaultSize)

		// Act
		uri, err := e.EncodeDataURI("hello")

		// Assert
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		const prefix = "data:image/png;base64,"
		if !strings.HasPrefix(uri, prefix) {
			t.Fatalf("missing data uri prefix in %.40q", uri)
		}
		raw, err := base64.StdEncoding.DecodeString(uri[len(prefix):])
		if err != nil {
			t.Fatalf("payload is not base64: %v", err)
		}
		if !bytes.HasPrefix(raw, pngMagic) {
			t.Fatalf("payload is not a png")
		}
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		e := NewPNG(DefaultSize)

		_, err := e.EncodeDataURI("")

		if !errors.Is(err, ErrEmptyContent) {
			t.Fatalf("expected ErrEmptyContent, got %v", err)
		}
	})
}
