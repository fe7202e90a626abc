package history

import (
	"fmt"

	"github.com/gogpu/pixhist/codec"
)

// Snapshot is one immutable, compressed capture of a view's full pixel
// buffer. Only the compressed form is kept; Pixels decompresses on demand.
type Snapshot struct {
	id     SnapshotID
	extent Extent
	size   int
	data   []byte
	codec  codec.Codec
}

// NewSnapshot compresses pixels with c and returns the snapshot.
// pixels is not retained.
//
// It panics if len(pixels) does not match the extent, which indicates a
// caller bug.
func NewSnapshot(id SnapshotID, extent Extent, pixels []byte, c codec.Codec) *Snapshot {
	if len(pixels) != extent.Size() {
		panic(fmt.Sprintf("history: snapshot %d: pixel buffer is %d bytes, extent %s needs %d",
			id, len(pixels), extent, extent.Size()))
	}
	if c == nil {
		c = codec.Default
	}
	return &Snapshot{
		id:     id,
		extent: extent,
		size:   len(pixels),
		data:   codec.MustEncode(c, pixels),
		codec:  c,
	}
}

// ID returns the snapshot id.
func (s *Snapshot) ID() SnapshotID { return s.id }

// Extent returns the frame geometry captured with the snapshot.
func (s *Snapshot) Extent() Extent { return s.extent }

// Width returns the full strip width in pixels.
func (s *Snapshot) Width() uint32 { return s.extent.Width() }

// Height returns the strip height in pixels.
func (s *Snapshot) Height() uint32 { return s.extent.Height() }

// Size returns the uncompressed size in bytes.
func (s *Snapshot) Size() int { return s.size }

// CompressedSize returns the number of bytes held by the snapshot.
func (s *Snapshot) CompressedSize() int { return len(s.data) }

// Codec returns the codec the snapshot was compressed with.
func (s *Snapshot) Codec() codec.Codec { return s.codec }

// Pixels returns a freshly decompressed copy of the snapshot's buffer.
// The result is owned by the caller.
func (s *Snapshot) Pixels() []byte {
	out := codec.MustDecode(s.codec, s.data)
	if len(out) != s.size {
		panic(fmt.Sprintf("history: snapshot %d: decompressed %d bytes, want %d", s.id, len(out), s.size))
	}
	return out
}
