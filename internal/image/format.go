// Package image converts pixel buffers between the in-memory BGRA layout
// and the RGBA layout of image files, and reads and writes those files.
package image

import "fmt"

// Format is a 4-byte-per-pixel channel order.
type Format uint8

const (
	// FormatRGBA8 is non-premultiplied RGBA, the order used on disk.
	FormatRGBA8 Format = iota

	// FormatBGRA8 is non-premultiplied BGRA, the order of view framebuffers.
	FormatBGRA8

	formatCount
)

// BytesPerPixel is the pixel size shared by every format.
const BytesPerPixel = 4

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// RowBytes returns the number of bytes in a row of width pixels.
func (f Format) RowBytes(width int) int {
	return width * BytesPerPixel
}

// Swizzle copies src into dst exchanging the first and third channel of
// every pixel. It converts RGBA to BGRA and back. dst and src may be the
// same slice; len(dst) must be at least len(src).
func Swizzle(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i] = b
		dst[i+1] = g
		dst[i+2] = r
		dst[i+3] = a
	}
}
