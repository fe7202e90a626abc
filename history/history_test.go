package history

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixhist/codec"
)

var ext = NewExtent(4, 4, 1)

// fill returns a buffer for ext where every byte is v.
func fill(v byte) []byte {
	return bytes.Repeat([]byte{v}, ext.Size())
}

func TestNewHistory(t *testing.T) {
	h := New(ext, fill(0))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	s, px := h.Current()
	assert.Equal(t, SnapshotID(0), s.ID())
	assert.Equal(t, fill(0), px)
	assert.Equal(t, fill(0), s.Pixels())
}

func TestUndoOnFreshHistory(t *testing.T) {
	h := New(ext, fill(0))

	s, ok := h.Undo()
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Equal(t, 0, h.Cursor())

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestUndoRedoSymmetry(t *testing.T) {
	h := New(ext, fill(0))
	h.Push(fill(1), ext)
	h.Push(fill(2), ext)
	h.Push(fill(3), ext)

	h.Undo()
	h.Undo()
	_, px := h.Current()
	assert.Equal(t, fill(1), px)

	h.Redo()
	s, ok := h.Redo()
	require.True(t, ok)
	_, px = h.Current()
	assert.Equal(t, fill(3), px)
	assert.Equal(t, SnapshotID(3), s.ID())

	_, ok = h.Redo()
	assert.False(t, ok, "redo past the tail must be a no-op")
}

func TestPushAfterUndoTruncates(t *testing.T) {
	h := New(ext, fill(0))
	h.Push(fill(1), ext)
	h.Push(fill(2), ext)
	h.Push(fill(3), ext)

	h.Undo()
	s, dropped := h.Push(fill(4), ext)

	require.Len(t, dropped, 1)
	assert.Equal(t, fill(3), dropped[0].Pixels())

	want := [][]byte{fill(0), fill(1), fill(2), fill(4)}
	require.Equal(t, len(want), h.Len())
	for i, snap := range h.Snapshots() {
		assert.Equal(t, want[i], snap.Pixels(), "snapshot %d", i)
		assert.Equal(t, SnapshotID(i), snap.ID(), "ids stay dense after truncation")
	}
	assert.Equal(t, SnapshotID(3), s.ID())
	assert.Equal(t, 3, h.Cursor())

	_, ok := h.Redo()
	assert.False(t, ok, "truncated snapshot must not be reachable")
	_, px := h.Current()
	assert.Equal(t, fill(4), px)
}

func TestBadPushKeepsRedoTail(t *testing.T) {
	h := New(ext, fill(0))
	h.Push(fill(1), ext)
	h.Push(fill(2), ext)
	h.Undo()

	assert.Panics(t, func() { h.Push([]byte{1, 2, 3}, ext) })

	assert.Equal(t, 3, h.Len(), "redo tail survives a rejected push")
	assert.Equal(t, 1, h.Cursor())
	s, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, fill(2), s.Pixels())
}

func TestSnapshotIDsMonotonic(t *testing.T) {
	h := New(ext, fill(0))
	last := SnapshotID(0)
	for i := range 20 {
		if i%5 == 4 {
			h.Undo()
			h.Undo()
			s, _ := h.Current()
			last = s.ID()
		}
		s, _ := h.Push(fill(byte(i)), ext)
		assert.Equal(t, last+1, s.ID())
		last = s.ID()
	}
}

func TestHistoryInvariantRandomOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	h := New(ext, fill(0))

	// model mirrors the expected content of every snapshot.
	model := [][]byte{fill(0)}
	cursor := 0

	for i := range 500 {
		switch rng.IntN(3) {
		case 0:
			px := fill(byte(i))
			h.Push(px, ext)
			model = append(model[:cursor+1], px)
			cursor++
		case 1:
			if _, ok := h.Undo(); ok {
				cursor--
			}
		case 2:
			if _, ok := h.Redo(); ok {
				cursor++
			}
		}

		require.GreaterOrEqual(t, h.Len(), 1)
		require.Equal(t, cursor, h.Cursor())
		require.Less(t, h.Cursor(), h.Len())
		require.Equal(t, len(model), h.Len())

		s, px := h.Current()
		require.Equal(t, model[cursor], px)
		require.Equal(t, SnapshotID(cursor), s.ID())
	}
}

func TestPushCopiesInput(t *testing.T) {
	h := New(ext, fill(0))
	px := fill(5)
	h.Push(px, ext)
	px[0] = 99

	_, live := h.Current()
	assert.Equal(t, byte(5), live[0])
}

func TestCommitAndRevert(t *testing.T) {
	h := New(ext, fill(0))

	live := h.LivePixels()
	live[0] = 42
	h.Revert()
	_, px := h.Current()
	assert.Equal(t, fill(0), px, "revert discards uncommitted edits")

	h.LivePixels()[0] = 42
	s, _ := h.Commit(ext)
	assert.Equal(t, byte(42), s.Pixels()[0])

	h.Undo()
	_, px = h.Current()
	assert.Equal(t, fill(0), px)
}

func TestPushResizesLiveBuffer(t *testing.T) {
	h := New(ext, fill(0))
	big := NewExtent(4, 4, 3)
	h.Push(bytes.Repeat([]byte{9}, big.Size()), big)

	s, px := h.Current()
	assert.Equal(t, big, s.Extent())
	assert.Len(t, px, big.Size())
	assert.Equal(t, uint32(12), s.Width())

	h.Undo()
	_, px = h.Current()
	assert.Len(t, px, ext.Size())
}

func TestWithCodec(t *testing.T) {
	h := New(ext, fill(0), WithCodec(codec.Zstd))
	s, _ := h.Push(fill(1), ext)
	assert.Equal(t, "zstd", s.Codec().Name())
	assert.Greater(t, h.CompressedSize(), 0)
}

// mapCache is a Cache backed by a map, counting loads.
type mapCache struct {
	m    map[SnapshotID][]byte
	hits int
}

func (c *mapCache) Load(id SnapshotID) ([]byte, bool) {
	px, ok := c.m[id]
	if ok {
		c.hits++
	}
	return px, ok
}
func (c *mapCache) Store(id SnapshotID, px []byte) { c.m[id] = px }
func (c *mapCache) Evict(id SnapshotID)            { delete(c.m, id) }

func TestCacheIsConsultedAndInvalidated(t *testing.T) {
	c := &mapCache{m: map[SnapshotID][]byte{}}
	h := New(ext, fill(0), WithCache(c))
	h.Push(fill(1), ext)
	h.Push(fill(2), ext)

	h.Undo() // 1, miss
	h.Redo() // 2, miss
	h.Undo() // 1, hit
	h.Redo() // 2, hit
	assert.Equal(t, 2, c.hits)

	// Editing live pixels must not leak into the cache.
	h.LivePixels()[0] = 77
	h.Undo()
	h.Redo()
	_, px := h.Current()
	assert.Equal(t, fill(2), px)

	h.Undo()
	h.Push(fill(9), ext) // drops snapshot 2
	_, cached := c.m[2]
	assert.False(t, cached, "truncated snapshot must be evicted")

	h.Close()
	assert.Empty(t, c.m)
}
