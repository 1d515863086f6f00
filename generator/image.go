package generator

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// ProductImage holds one generated product photo: the bytes as returned by
// the endpoint (offered for download untouched) and the decoded bitmap.
type ProductImage struct {
	Data  []byte
	Image image.Image
}

// DecodeProductImage decodes the endpoint's inline bytes. PNG and JPEG are
// the encodings Gemini actually emits.
func DecodeProductImage(data []byte) (*ProductImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode product image: %w", err)
	}
	return &ProductImage{Data: data, Image: img}, nil
}

// HalfSize returns a half-resolution preview for on-screen display. The
// original bytes stay available through Data for full-resolution download.
func (p *ProductImage) HalfSize() image.Image {
	bounds := p.Image.Bounds()
	w := bounds.Dx() / 2
	if w < 1 {
		return p.Image
	}
	return resize.Resize(uint(w), 0, p.Image, resize.Lanczos3)
}

// PNGBytes re-encodes the bitmap as PNG. Used when the download target
// should be PNG regardless of what the endpoint returned.
func (p *ProductImage) PNGBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Image); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
