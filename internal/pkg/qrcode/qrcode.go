package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content is empty")

// DefaultSize is a good balance for web display and mobile scanning.
const DefaultSize = 256

// Encoder renders text as a scannable image.
type Encoder interface {
	// EncodeDataURI returns a base64 data URI holding a PNG QR code.
	EncodeDataURI(content string) (string, error)
}

// PNG is an Encoder producing PNG QR codes at a fixed pixel size with medium
// error correction.
type PNG struct {
	size int
}

// NewPNG returns a PNG encoder. A non-positive size falls back to DefaultSize.
func NewPNG(size int) *PNG {
	if size <= 0 {
		size = DefaultSize
	}
	return &PNG{size: size}
}

// Encode returns raw PNG bytes for the given content.
func (e *PNG) Encode(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	return qr.Encode(content, qr.Medium, e.size)
}

// EncodeDataURI returns a "data:image/png;base64," URI suitable for direct
// embedding in an <img> tag.
func (e *PNG) EncodeDataURI(content string) (string, error) {
	png, err := e.Encode(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
