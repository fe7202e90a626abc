package image

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrDataSize is returned when a raw buffer does not match its dimensions.
	ErrDataSize = errors.New("image: data size does not match dimensions")
)

// ImageBuf is a tightly packed 4-byte-per-pixel buffer.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	format Format
}

// NewImageBuf allocates a zeroed buffer.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return &ImageBuf{
		data:   make([]byte, format.RowBytes(width)*height),
		width:  width,
		height: height,
		format: format,
	}, nil
}

// FromRaw wraps data without copying.
func FromRaw(data []byte, width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if want := format.RowBytes(width) * height; len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d, want %d", ErrDataSize, len(data), width, height, want)
	}
	return &ImageBuf{data: data, width: width, height: height, format: format}, nil
}

// Width returns the width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Format returns the channel order.
func (b *ImageBuf) Format() Format { return b.format }

// Data returns the underlying pixel bytes.
func (b *ImageBuf) Data() []byte { return b.data }

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int { return b.format.RowBytes(b.width) }

// RowBytes returns row y.
func (b *ImageBuf) RowBytes(y int) []byte {
	start := y * b.Stride()
	return b.data[start : start+b.Stride()]
}

// Convert returns a copy of b in format f.
func (b *ImageBuf) Convert(f Format) *ImageBuf {
	out := &ImageBuf{
		data:   make([]byte, len(b.data)),
		width:  b.width,
		height: b.height,
		format: f,
	}
	if f == b.format {
		copy(out.data, b.data)
	} else if len(b.data) > 0 {
		Swizzle(out.data, b.data)
	}
	return out
}

// Crop copies the width by height region whose top-left corner is (x, y).
// It returns nil if the region is empty or not inside b.
func (b *ImageBuf) Crop(x, y, width, height int) *ImageBuf {
	if width <= 0 || height <= 0 || x < 0 || y < 0 || x+width > b.width || y+height > b.height {
		return nil
	}
	out, _ := NewImageBuf(width, height, b.format)
	for row := range height {
		src := b.RowBytes(y + row)[x*BytesPerPixel : (x+width)*BytesPerPixel]
		copy(out.RowBytes(row), src)
	}
	return out
}
