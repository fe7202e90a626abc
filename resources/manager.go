package resources

import (
	"sync"

	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/history"
	"github.com/gogpu/pixhist/replay"
)

// Manager is a shared handle to one Table. Any number of goroutines may
// hold the same *Manager; Read grants shared access and Write exclusive
// access, never both at once.
type Manager struct {
	mu    sync.RWMutex
	table *Table
}

// NewManager creates a manager around a new, empty table.
func NewManager(opts ...Option) *Manager {
	return &Manager{table: NewTable(opts...)}
}

// Read calls fn with shared access to the table. fn must not retain the
// Reader or any pixel slice obtained from it after returning.
func (m *Manager) Read(fn func(r Reader)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.table)
}

// Write calls fn with exclusive access to the table.
func (m *Manager) Write(fn func(t *Table)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.table)
}

// AddView creates view id with pixels as its initial snapshot.
func (m *Manager) AddView(id pixhist.ViewID, extent history.Extent, pixels []byte) {
	m.Write(func(t *Table) { t.AddView(id, extent, pixels) })
}

// AddBlankView creates a transparent single-frame view.
func (m *Manager) AddBlankView(id pixhist.ViewID, fw, fh uint32) {
	m.Write(func(t *Table) { t.AddBlankView(id, fw, fh) })
}

// RemoveView drops view id and reports whether it existed.
func (m *Manager) RemoveView(id pixhist.ViewID) (removed bool) {
	m.Write(func(t *Table) { removed = t.RemoveView(id) })
	return removed
}

// LoadView decodes the image file at path and adds it as a single-frame
// view.
func (m *Manager) LoadView(id pixhist.ViewID, path string) (history.Extent, error) {
	w, h, pixels, err := LoadImage(path)
	if err != nil {
		return history.Extent{}, err
	}
	extent := history.NewExtent(w, h, 1)
	m.AddView(id, extent, pixels)
	return extent, nil
}

// ObserveFrame feeds one rendered frame to the replay state.
func (m *Manager) ObserveFrame(frame []byte) (o replay.Outcome) {
	m.Write(func(t *Table) { o = t.ObserveFrame(frame) })
	return o
}

// snapshotCopy is the data an export needs, copied out under the lock.
type snapshotCopy struct {
	id     history.SnapshotID
	extent history.Extent
	pixels []byte
}

func (m *Manager) copyCurrent(id pixhist.ViewID) snapshotCopy {
	var c snapshotCopy
	m.Read(func(r Reader) {
		s, px := r.Current(id)
		c = snapshotCopy{id: s.ID(), extent: s.Extent(), pixels: append([]byte(nil), px...)}
	})
	return c
}
