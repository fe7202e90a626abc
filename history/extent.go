package history

import (
	"fmt"
	"strconv"
)

// BytesPerPixel is the size of one in-memory pixel sample.
const BytesPerPixel = 4

// Extent describes a multi-frame animation strip. Frames are laid out
// left-to-right, so the full buffer is FrameWidth*FrameCount pixels wide
// and FrameHeight pixels tall.
type Extent struct {
	FrameWidth  uint32
	FrameHeight uint32
	FrameCount  int
}

// NewExtent returns the extent of nframes frames of fw by fh pixels.
func NewExtent(fw, fh uint32, nframes int) Extent {
	return Extent{FrameWidth: fw, FrameHeight: fh, FrameCount: nframes}
}

// Width returns the width of the whole strip in pixels.
func (e Extent) Width() uint32 {
	return e.FrameWidth * uint32(e.FrameCount)
}

// Height returns the height of the strip in pixels.
func (e Extent) Height() uint32 {
	return e.FrameHeight
}

// Pixels returns the number of pixels in the strip.
func (e Extent) Pixels() int {
	return int(e.FrameWidth) * int(e.FrameHeight) * e.FrameCount
}

// Size returns the size in bytes of the strip's raw pixel buffer.
func (e Extent) Size() int {
	return e.Pixels() * BytesPerPixel
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%dx%d", e.FrameWidth, e.FrameHeight, e.FrameCount)
}

// SnapshotID identifies a point in one view's history. IDs are dense and
// start at 0. They are also how callers remember which snapshot was last
// written to disk.
type SnapshotID uint64

func (id SnapshotID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
