package image

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Decoders available to Load and Decode.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("image: empty image")

// Load decodes the image file at path into an RGBA8 buffer.
// Supported formats: PNG, GIF (first frame), JPEG, BMP, TIFF, WebP.
func Load(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f))
}

// Decode decodes an image of any supported format into an RGBA8 buffer.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img)
}

// FromStdImage converts img to a non-premultiplied RGBA8 buffer.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != FormatRGBA8.RowBytes(bounds.Dx()) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	size := FormatRGBA8.RowBytes(bounds.Dx()) * bounds.Dy()
	return FromRaw(nrgba.Pix[:size], bounds.Dx(), bounds.Dy(), FormatRGBA8)
}

// ToNRGBA returns b as a standard library image, converting to RGBA order
// if needed.
func (b *ImageBuf) ToNRGBA() *image.NRGBA {
	rgba := b
	if b.format != FormatRGBA8 {
		rgba = b.Convert(FormatRGBA8)
	}
	return &image.NRGBA{
		Pix:    rgba.data,
		Stride: rgba.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// EncodePNG writes b as an 8-bit RGBA PNG.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToNRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes b as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := b.EncodePNG(w); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("image: write file: %w", err)
	}
	return f.Close()
}
