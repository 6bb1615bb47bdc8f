// Package qrimage renders booking QR tokens as PNG images.
package qrimage

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Renderer encodes tokens at medium error correction.
type Renderer struct {
	size int
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = defaultSize
	}
	return &Renderer{size: size}
}

func (r *Renderer) RenderPNG(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty qr token")
	}
	png, err := qrcode.Encode(token, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
