package image

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestSwizzle(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(src))
	Swizzle(dst, src)
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, dst)

	// In place, twice, is the identity.
	Swizzle(dst, dst)
	assert.Equal(t, src, dst)

	assert.NotPanics(t, func() { Swizzle(nil, nil) })
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatBGRA8.IsValid())
	assert.False(t, Format(9).IsValid())
	assert.Equal(t, "BGRA8", FormatBGRA8.String())
	assert.Equal(t, "RGBA8", FormatRGBA8.String())
	assert.Equal(t, 40, FormatRGBA8.RowBytes(10))
}

func TestNewImageBufErrors(t *testing.T) {
	_, err := NewImageBuf(0, 5, FormatRGBA8)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = NewImageBuf(5, 5, Format(7))
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = FromRaw(make([]byte, 3), 1, 1, FormatRGBA8)
	assert.ErrorIs(t, err, ErrDataSize)
}

func TestConvertRoundTrip(t *testing.T) {
	b, err := FromRaw([]byte{10, 20, 30, 40}, 1, 1, FormatRGBA8)
	require.NoError(t, err)

	bgra := b.Convert(FormatBGRA8)
	assert.Equal(t, []byte{30, 20, 10, 40}, bgra.Data())
	assert.Equal(t, b.Data(), bgra.Convert(FormatRGBA8).Data())
}

func TestCrop(t *testing.T) {
	// 4x2 strip where each pixel's first byte is its x coordinate.
	b, err := NewImageBuf(4, 2, FormatBGRA8)
	require.NoError(t, err)
	for y := range 2 {
		row := b.RowBytes(y)
		for x := range 4 {
			row[x*4] = byte(x)
		}
	}

	c := b.Crop(2, 0, 2, 2)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Width())
	assert.Equal(t, 2, c.Height())
	assert.Equal(t, byte(2), c.RowBytes(1)[0])
	assert.Equal(t, byte(3), c.RowBytes(1)[4])

	assert.Nil(t, b.Crop(3, 0, 2, 2), "out of bounds")
	assert.Nil(t, b.Crop(0, 0, 0, 1), "empty region")
}

func TestPNGRoundTrip(t *testing.T) {
	b, err := NewImageBuf(3, 2, FormatBGRA8)
	require.NoError(t, err)
	for i := range b.Data() {
		b.Data()[i] = byte(i * 7)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, b.SavePNG(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA8, loaded.Format())
	assert.Equal(t, b.Data(), loaded.Convert(FormatBGRA8).Data())
}

func TestDecodeBMP(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	b, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, b.Data())
}

func TestDecodePaletted(t *testing.T) {
	pal := color.Palette{color.NRGBA{}, color.NRGBA{R: 1, G: 2, B: 3, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.Pix[1] = 1

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, src, nil))

	b, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 255}, b.Data())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
