package pixhist

import (
	"strconv"
	"sync"
)

// ViewID identifies one open view. IDs are small, allocated in increasing
// order and never reused within a session.
type ViewID uint16

// String renders the id in decimal.
func (id ViewID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDAllocator hands out view identifiers. The zero id is reserved to mean
// "no view", so the first allocated id is 1.
//
// IDAllocator is safe for concurrent use.
type IDAllocator struct {
	mu   sync.Mutex
	next ViewID
}

// NewIDAllocator creates an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh view id.
// It panics when the id space is exhausted, since ids are never recycled.
func (a *IDAllocator) Next() ViewID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.next == 0 {
		panic("pixhist: view id space exhausted")
	}
	id := a.next
	a.next++
	return id
}
