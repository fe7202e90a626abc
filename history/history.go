package history

import (
	"fmt"
	"iter"

	"github.com/gogpu/pixhist/codec"
)

// Cache holds decompressed snapshot buffers so that repeated undo/redo over
// the same snapshots can skip decompression. Buffers handed to Store are
// owned by the cache; buffers returned by Load must not be modified.
type Cache interface {
	Load(id SnapshotID) ([]byte, bool)
	Store(id SnapshotID, pixels []byte)
	Evict(id SnapshotID)
}

// Option configures a History.
type Option func(*History)

// WithCodec sets the codec used for snapshots pushed into the history.
func WithCodec(c codec.Codec) Option {
	return func(h *History) {
		if c != nil {
			h.codec = c
		}
	}
}

// WithCache sets the cache consulted on undo and redo.
func WithCache(c Cache) Option {
	return func(h *History) {
		h.cache = c
	}
}

// History is the snapshot history of one view.
type History struct {
	snapshots NonEmpty[*Snapshot]
	cursor    int
	pixels    []byte

	codec codec.Codec
	cache Cache
}

// New creates a history whose only snapshot, id 0, captures pixels.
func New(extent Extent, pixels []byte, opts ...Option) *History {
	h := &History{codec: codec.Default}
	for _, opt := range opts {
		opt(h)
	}
	h.snapshots = NewNonEmpty(NewSnapshot(0, extent, pixels, h.codec))
	h.pixels = clone(pixels)
	return h
}

// Current returns the snapshot at the cursor and the live pixels. Unless
// the live pixels were edited since the last commit point, both describe
// the same content. The pixel slice is only valid until the next mutation.
func (h *History) Current() (*Snapshot, []byte) {
	return h.current(), h.pixels
}

func (h *History) current() *Snapshot {
	s, ok := h.snapshots.Get(h.cursor)
	if !ok {
		panic(fmt.Sprintf("history: cursor %d out of range [0, %d)", h.cursor, h.snapshots.Len()))
	}
	return s
}

// LivePixels returns the editable live buffer. Edits stay uncommitted until
// the next Push or are discarded by Revert, Undo or Redo.
func (h *History) LivePixels() []byte {
	return h.pixels
}

// Push records pixels as a new snapshot after the cursor and makes it
// current. Any snapshots after the cursor are discarded first. The returned
// slice lists the discarded snapshots, oldest first.
func (h *History) Push(pixels []byte, extent Extent) (*Snapshot, []*Snapshot) {
	cur, _ := h.snapshots.Get(h.cursor)
	s := NewSnapshot(cur.id+1, extent, pixels, h.codec)

	dropped := h.snapshots.Truncate(h.cursor + 1)
	for _, d := range dropped {
		h.evict(d.id)
	}
	h.snapshots.Push(s)
	h.cursor = h.snapshots.Len() - 1

	if len(h.pixels) == len(pixels) {
		copy(h.pixels, pixels)
	} else {
		h.pixels = clone(pixels)
	}
	return s, dropped
}

// Commit pushes the live pixels as a new snapshot with the given extent.
func (h *History) Commit(extent Extent) (*Snapshot, []*Snapshot) {
	return h.Push(h.pixels, extent)
}

// Undo moves the cursor back one snapshot and restores its pixels.
// It reports false, changing nothing, when there is nothing to undo.
func (h *History) Undo() (*Snapshot, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.restore(), true
}

// Redo moves the cursor forward one snapshot and restores its pixels.
// It reports false, changing nothing, when there is nothing to redo.
func (h *History) Redo() (*Snapshot, bool) {
	if h.cursor == h.snapshots.Len()-1 {
		return nil, false
	}
	h.cursor++
	return h.restore(), true
}

// Revert discards uncommitted edits to the live pixels.
func (h *History) Revert() *Snapshot {
	return h.restore()
}

// restore reloads the live pixels from the snapshot at the cursor.
func (h *History) restore() *Snapshot {
	s := h.current()

	if h.cache != nil {
		if cached, ok := h.cache.Load(s.id); ok && len(cached) == s.size {
			h.pixels = clone(cached)
			return s
		}
	}
	h.pixels = s.Pixels()
	if h.cache != nil {
		h.cache.Store(s.id, clone(h.pixels))
	}
	return s
}

func (h *History) evict(id SnapshotID) {
	if h.cache != nil {
		h.cache.Evict(id)
	}
}

// Close evicts every snapshot of the history from the cache.
func (h *History) Close() {
	for _, s := range h.snapshots.All() {
		h.evict(s.id)
	}
}

// Len returns the number of snapshots.
func (h *History) Len() int { return h.snapshots.Len() }

// Cursor returns the index of the current snapshot.
func (h *History) Cursor() int { return h.cursor }

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < h.snapshots.Len()-1 }

// Snapshots iterates over the history, oldest first.
func (h *History) Snapshots() iter.Seq2[int, *Snapshot] {
	return h.snapshots.All()
}

// CompressedSize returns the number of compressed bytes held by all
// snapshots.
func (h *History) CompressedSize() int {
	total := 0
	for _, s := range h.snapshots.All() {
		total += s.CompressedSize()
	}
	return total
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
