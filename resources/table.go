// Package resources owns the pixel data of every open view.
//
// The Table maps view ids to their snapshot histories and carries the
// replay verification state. The Manager shares one Table between the
// update path and the render path behind a reader/writer lock: callers name
// the access mode they need with Read or Write.
package resources

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/cache"
	"github.com/gogpu/pixhist/codec"
	"github.com/gogpu/pixhist/history"
	"github.com/gogpu/pixhist/metrics"
	"github.com/gogpu/pixhist/replay"
)

// Reader is the read-only view of a Table handed out by Manager.Read.
type Reader interface {
	Current(id pixhist.ViewID) (*history.Snapshot, []byte)
	Lookup(id pixhist.ViewID) (*history.Snapshot, []byte, bool)
	Views() []pixhist.ViewID
	Len() int
	IsSnapshotSaved(id pixhist.ViewID, snap history.SnapshotID) bool
	ExpectedHashes() []replay.Hash
	ReplayMode() replay.Mode
}

// Table indexes view histories by view id and holds the replay state.
type Table struct {
	views map[pixhist.ViewID]*history.History
	saved map[pixhist.ViewID]history.SnapshotID

	replay  *replay.State
	codec   codec.Codec
	pixels  *cache.Pixels
	metrics *metrics.Collectors
}

var _ Reader = (*Table)(nil)

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Table{
		views:   make(map[pixhist.ViewID]*history.History),
		saved:   make(map[pixhist.ViewID]history.SnapshotID),
		replay:  replay.NewState(o.mode, o.expected),
		codec:   o.codec,
		pixels:  o.pixels,
		metrics: o.metrics,
	}
}

// AddView creates the history of view id with pixels as its only snapshot.
// It panics if id is already present or pixels does not match extent.
func (t *Table) AddView(id pixhist.ViewID, extent history.Extent, pixels []byte) {
	if _, ok := t.views[id]; ok {
		panic(fmt.Sprintf("resources: view #%d already exists", id))
	}
	opts := []history.Option{history.WithCodec(t.codec)}
	if t.pixels != nil {
		opts = append(opts, history.WithCache(t.pixels.ForView(id)))
	}
	h := history.New(extent, pixels, opts...)
	t.views[id] = h

	t.metrics.ViewOpened(h.CompressedSize())
	pixhist.Logger().Info("resources: view added", "view", id, "extent", extent)
}

// AddBlankView creates a single-frame transparent view of fw by fh pixels.
func (t *Table) AddBlankView(id pixhist.ViewID, fw, fh uint32) {
	extent := history.NewExtent(fw, fh, 1)
	t.AddView(id, extent, make([]byte, extent.Size()))
}

// RemoveView drops the history of view id and every cached buffer of it.
// It reports whether the view existed.
func (t *Table) RemoveView(id pixhist.ViewID) bool {
	h, ok := t.views[id]
	if !ok {
		return false
	}
	h.Close()
	if t.pixels != nil {
		t.pixels.DropView(id)
	}
	delete(t.views, id)
	delete(t.saved, id)

	t.metrics.ViewClosed(h.CompressedSize())
	pixhist.Logger().Info("resources: view removed", "view", id)
	return true
}

// mustGet returns the history of id, panicking if it does not exist.
// View ids are allocated by the caller, so a miss is a bug.
func (t *Table) mustGet(id pixhist.ViewID) *history.History {
	h, ok := t.views[id]
	if !ok {
		panic(fmt.Sprintf("resources: view #%d must exist and have an associated snapshot", id))
	}
	return h
}

// Current returns the current snapshot of view id and its live pixels.
// It panics if the view does not exist.
func (t *Table) Current(id pixhist.ViewID) (*history.Snapshot, []byte) {
	return t.mustGet(id).Current()
}

// CurrentMut returns the history of view id for direct mutation.
// It panics if the view does not exist.
func (t *Table) CurrentMut(id pixhist.ViewID) *history.History {
	return t.mustGet(id)
}

// Lookup is Current for callers that cannot vouch for id.
func (t *Table) Lookup(id pixhist.ViewID) (*history.Snapshot, []byte, bool) {
	h, ok := t.views[id]
	if !ok {
		return nil, nil, false
	}
	s, px := h.Current()
	return s, px, true
}

// Views returns the ids of all views in ascending order.
func (t *Table) Views() []pixhist.ViewID {
	return slices.Sorted(maps.Keys(t.views))
}

// Len returns the number of views.
func (t *Table) Len() int {
	return len(t.views)
}

// Push records pixels as a new snapshot of view id.
func (t *Table) Push(id pixhist.ViewID, pixels []byte, extent history.Extent) *history.Snapshot {
	h := t.mustGet(id)
	before := h.CompressedSize()
	s, dropped := h.Push(pixels, extent)
	t.metrics.Pushed(h.CompressedSize()-before, len(dropped))

	// Truncated ids are reused, so a saved marker on one no longer
	// describes what is on disk.
	if saved, ok := t.saved[id]; ok {
		for _, d := range dropped {
			if d.ID() == saved {
				delete(t.saved, id)
				break
			}
		}
	}

	pixhist.Logger().Debug("resources: snapshot pushed",
		"view", id, "snapshot", s.ID(), "size", s.Size(), "compressed", s.CompressedSize(), "pruned", len(dropped))
	return s
}

// Commit pushes the live pixels of view id as a new snapshot. It returns
// nil without pushing when the live pixels equal the current snapshot and
// the extent is unchanged.
func (t *Table) Commit(id pixhist.ViewID, extent history.Extent) *history.Snapshot {
	h := t.mustGet(id)
	cur, live := h.Current()
	if cur.Extent() == extent && bytes.Equal(cur.Pixels(), live) {
		return nil
	}
	return t.Push(id, live, extent)
}

// Undo steps view id back one snapshot.
func (t *Table) Undo(id pixhist.ViewID) (*history.Snapshot, bool) {
	s, ok := t.mustGet(id).Undo()
	if ok {
		t.metrics.Undone()
		pixhist.Logger().Debug("resources: undo", "view", id, "snapshot", s.ID())
	}
	return s, ok
}

// Redo steps view id forward one snapshot.
func (t *Table) Redo(id pixhist.ViewID) (*history.Snapshot, bool) {
	s, ok := t.mustGet(id).Redo()
	if ok {
		t.metrics.Redone()
		pixhist.Logger().Debug("resources: redo", "view", id, "snapshot", s.ID())
	}
	return s, ok
}

// MarkSaved remembers snap as the snapshot of view id last written to disk.
func (t *Table) MarkSaved(id pixhist.ViewID, snap history.SnapshotID) {
	if _, ok := t.views[id]; ok {
		t.saved[id] = snap
	}
}

// IsSnapshotSaved reports whether snap is the last saved snapshot of id.
func (t *Table) IsSnapshotSaved(id pixhist.ViewID, snap history.SnapshotID) bool {
	saved, ok := t.saved[id]
	return ok && saved == snap
}

// ReplayMode returns the current replay mode.
func (t *Table) ReplayMode() replay.Mode {
	return t.replay.Mode()
}

// ExpectedHashes returns the pending expected hashes.
func (t *Table) ExpectedHashes() []replay.Hash {
	return t.replay.Expected()
}

// ObserveFrame feeds one rendered frame to the replay state according to
// its mode. It returns the outcome in verify mode and nil otherwise.
func (t *Table) ObserveFrame(frame []byte) replay.Outcome {
	switch t.replay.Mode() {
	case replay.ModeRecord:
		if _, added := t.replay.Record(frame); added {
			t.metrics.Recorded()
		}
	case replay.ModeVerify:
		o := t.replay.Verify(frame)
		t.metrics.Verified(replay.Kind(o))
		return o
	}
	return nil
}
