package resources

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/history"
	pximage "github.com/gogpu/pixhist/internal/image"
)

// MaxPaletteSize is the largest palette an animation can use.
const MaxPaletteSize = 256

// TransparentIndex is the palette index reserved for the transparent color.
const TransparentIndex = 0

// ErrPaletteOverflow is returned when an animation needs more than
// MaxPaletteSize colors.
var ErrPaletteOverflow = errors.New("resources: palette has more than 256 colors")

// Transparent is the fully transparent color.
var Transparent = color.NRGBA{}

// LoadImage decodes the image file at path and returns its size and its
// pixels in BGRA order.
func LoadImage(path string) (width, height uint32, pixels []byte, err error) {
	buf, err := pximage.Load(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("resources: load %s: %w", path, err)
	}
	bgra := buf.Convert(pximage.FormatBGRA8)
	return uint32(bgra.Width()), uint32(bgra.Height()), bgra.Data(), nil
}

// SaveImage writes the current pixels of view id as an RGBA PNG and marks
// the snapshot as saved. It returns the saved snapshot id and the number of
// pixels written. The table lock is only held while copying pixels.
func (m *Manager) SaveImage(id pixhist.ViewID, path string) (history.SnapshotID, int, error) {
	snap := m.copyCurrent(id)
	w, h := int(snap.extent.Width()), int(snap.extent.Height())

	buf, err := pximage.FromRaw(snap.pixels, w, h, pximage.FormatBGRA8)
	if err != nil {
		return 0, 0, fmt.Errorf("resources: save %s: %w", path, err)
	}
	if err := buf.SavePNG(path); err != nil {
		return 0, 0, fmt.Errorf("resources: save %s: %w", path, err)
	}

	m.Write(func(t *Table) { t.MarkSaved(id, snap.id) })
	pixhist.Logger().Info("resources: image saved", "view", id, "snapshot", snap.id, "path", path)
	return snap.id, w * h, nil
}

// SaveAnimation writes the frames of view id as a looping GIF. The delay
// is rounded down to hundredths of a second and clamped to the format's
// maximum. If palette is nil, it is built from the colors in the view;
// otherwise pixels whose color is not in palette become transparent.
// It returns the number of pixels written.
//
// GIF has a single transparent palette entry and no partial alpha. Every
// pixel with zero alpha is written as that entry whatever its RGB. Pixels
// with partial alpha are written as their alpha-premultiplied RGB, fully
// opaque.
func (m *Manager) SaveAnimation(id pixhist.ViewID, path string, delay time.Duration, palette []color.NRGBA) (int, error) {
	snap := m.copyCurrent(id)

	rgba := make([]byte, len(snap.pixels))
	pximage.Swizzle(rgba, snap.pixels)

	if palette == nil {
		palette = Colors(rgba)
	}
	pal, err := BuildPalette(palette)
	if err != nil {
		return 0, fmt.Errorf("resources: save %s: %w", path, err)
	}

	anim := Animation(snap.extent, rgba, pal, delay)

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("resources: save %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := gif.EncodeAll(w, anim); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("resources: save %s: encode GIF: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("resources: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("resources: save %s: %w", path, err)
	}

	pixhist.Logger().Info("resources: animation saved",
		"view", id, "frames", snap.extent.FrameCount, "colors", len(pal), "path", path)
	return snap.extent.Pixels(), nil
}

// Colors returns the distinct colors of an RGBA buffer. All colors with
// zero alpha are reported as Transparent.
func Colors(rgba []byte) []color.NRGBA {
	seen := make(map[color.NRGBA]struct{})
	var out []color.NRGBA
	for i := 0; i+3 < len(rgba); i += 4 {
		c := normalize(color.NRGBA{R: rgba[i], G: rgba[i+1], B: rgba[i+2], A: rgba[i+3]})
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// normalize folds every invisible color into Transparent.
func normalize(c color.NRGBA) color.NRGBA {
	if c.A == 0 {
		return Transparent
	}
	return c
}

func compareColor(a, b color.NRGBA) int {
	return cmp.Or(
		cmp.Compare(a.R, b.R),
		cmp.Compare(a.G, b.G),
		cmp.Compare(a.B, b.B),
		cmp.Compare(a.A, b.A),
	)
}

// BuildPalette adds the transparent color to colors, sorts them and
// removes duplicates. Colors with zero alpha collapse into Transparent. Transparent sorts first, so it always lands on
// TransparentIndex.
func BuildPalette(colors []color.NRGBA) ([]color.NRGBA, error) {
	pal := make([]color.NRGBA, 0, len(colors)+1)
	for _, c := range colors {
		pal = append(pal, normalize(c))
	}
	pal = append(pal, Transparent)
	slices.SortFunc(pal, compareColor)
	pal = slices.Compact(pal)

	if len(pal) > MaxPaletteSize {
		return nil, fmt.Errorf("%w: %d colors", ErrPaletteOverflow, len(pal))
	}
	if pal[TransparentIndex] != Transparent {
		panic("resources: transparent color must sort first")
	}
	return pal, nil
}

// PaletteIndex returns the index of c in a palette built by BuildPalette,
// or TransparentIndex if c is not in it or has zero alpha.
func PaletteIndex(pal []color.NRGBA, c color.NRGBA) uint8 {
	if c.A == 0 {
		return TransparentIndex
	}
	i, ok := slices.BinarySearchFunc(pal, c, compareColor)
	if !ok {
		return TransparentIndex
	}
	return uint8(i)
}

// GIFDelay converts a frame delay to hundredths of a second, clamped to
// the largest value a GIF can store.
func GIFDelay(d time.Duration) int {
	cs := d.Milliseconds() / 10
	return int(min(max(cs, 0), math.MaxUint16))
}

// Animation slices an RGBA strip into extent.FrameCount paletted frames.
// It panics if rgba does not hold exactly extent.Size() bytes.
func Animation(extent history.Extent, rgba []byte, pal []color.NRGBA, delay time.Duration) *gif.GIF {
	fw, fh, n := int(extent.FrameWidth), int(extent.FrameHeight), extent.FrameCount
	strip, err := pximage.FromRaw(rgba, int(extent.Width()), fh, pximage.FormatRGBA8)
	if err != nil {
		panic(fmt.Sprintf("resources: animation strip %v: %v", extent, err))
	}

	palette := make(color.Palette, len(pal))
	for i, c := range pal {
		palette[i] = c
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, n),
		Delay:     make([]int, 0, n),
		Disposal:  make([]byte, 0, n),
		LoopCount: 0,
		Config:    image.Config{ColorModel: palette, Width: fw, Height: fh},
	}
	cs := GIFDelay(delay)

	for k := range n {
		px := strip.Crop(k*fw, 0, fw, fh).Data()
		frame := image.NewPaletted(image.Rect(0, 0, fw, fh), palette)
		for i := range frame.Pix {
			p := px[i*pximage.BytesPerPixel:]
			frame.Pix[i] = PaletteIndex(pal, color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, cs)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	return anim
}
