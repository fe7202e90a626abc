package cache

// entry is one cached value, linked into its shard's recency ring.
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// ring is a circular list of entries around a sentinel: root.next is the
// most recently used entry and root.prev the least. A ring must not be
// copied after init. Not thread-safe.
type ring[K comparable, V any] struct {
	root entry[K, V]
	n    int
}

func (r *ring[K, V]) init() {
	r.root.next = &r.root
	r.root.prev = &r.root
	r.n = 0
}

func (r *ring[K, V]) len() int { return r.n }

func (r *ring[K, V]) pushFront(e *entry[K, V]) {
	e.prev = &r.root
	e.next = r.root.next
	r.root.next.prev = e
	r.root.next = e
	r.n++
}

func (r *ring[K, V]) remove(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	r.n--
}

// touch marks e as the most recently used entry.
func (r *ring[K, V]) touch(e *entry[K, V]) {
	if r.root.next == e {
		return
	}
	r.remove(e)
	r.pushFront(e)
}

// oldest returns the least recently used entry, or nil if r is empty.
func (r *ring[K, V]) oldest() *entry[K, V] {
	if r.n == 0 {
		return nil
	}
	return r.root.prev
}
