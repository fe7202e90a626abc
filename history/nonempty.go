package history

import "iter"

// NonEmpty is a sequence that always holds at least one element.
// The zero value is not usable; construct with NewNonEmpty.
type NonEmpty[T any] struct {
	head T
	tail []T
}

// NewNonEmpty returns a sequence starting with head.
func NewNonEmpty[T any](head T, tail ...T) NonEmpty[T] {
	return NonEmpty[T]{head: head, tail: tail}
}

// Len returns the number of elements, which is never zero.
func (n *NonEmpty[T]) Len() int {
	return 1 + len(n.tail)
}

// Get returns the element at index i.
func (n *NonEmpty[T]) Get(i int) (T, bool) {
	switch {
	case i == 0:
		return n.head, true
	case i > 0 && i <= len(n.tail):
		return n.tail[i-1], true
	default:
		var zero T
		return zero, false
	}
}

// First returns the first element.
func (n *NonEmpty[T]) First() T {
	return n.head
}

// Last returns the last element.
func (n *NonEmpty[T]) Last() T {
	if len(n.tail) == 0 {
		return n.head
	}
	return n.tail[len(n.tail)-1]
}

// Push appends v.
func (n *NonEmpty[T]) Push(v T) {
	n.tail = append(n.tail, v)
}

// Truncate shortens the sequence to at most size elements and returns the
// removed ones. A size below 1 is treated as 1.
func (n *NonEmpty[T]) Truncate(size int) []T {
	size = max(size, 1)
	if size >= n.Len() {
		return nil
	}
	removed := make([]T, len(n.tail)-(size-1))
	copy(removed, n.tail[size-1:])

	clear(n.tail[size-1:])
	n.tail = n.tail[:size-1]
	return removed
}

// All iterates over the elements with their indices.
func (n *NonEmpty[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if !yield(0, n.head) {
			return
		}
		for i, v := range n.tail {
			if !yield(i+1, v) {
				return
			}
		}
	}
}
