// Package pool provides the unordered containers the particle runtime stores
// live particles and emitters in.
package pool

// Bag is an unordered container with O(1) append and O(1) removal.
//
// RemoveAt moves the last element into the vacated slot, so element order is
// not stable and an index is only valid until the next removal. Callers that
// hold on to an index must refresh it from the moved element RemoveAt returns.
//
// The zero value is an empty bag ready to use.
type Bag[T any] struct {
	items []T
}

// NewBag creates a bag with room for capacity elements before growing.
func NewBag[T any](capacity int) *Bag[T] {
	return &Bag[T]{items: make([]T, 0, capacity)}
}

// Add appends v and returns its index.
func (b *Bag[T]) Add(v T) int {
	b.items = append(b.items, v)
	return len(b.items) - 1
}

// RemoveAt removes the element at i by overwriting it with the last element.
//
// When another element was moved into slot i, RemoveAt returns it with
// ok=true. When i was the last slot nothing moves and ok is false.
// Panics if i is out of range.
func (b *Bag[T]) RemoveAt(i int) (moved T, ok bool) {
	last := len(b.items) - 1
	_ = b.items[i] // 越界时与切片索引一样 panic

	var zero T
	if i != last {
		b.items[i] = b.items[last]
		moved, ok = b.items[i], true
	}
	// 清空尾部槽位，避免残留指针阻止 GC
	b.items[last] = zero
	b.items = b.items[:last]
	return moved, ok
}

// Swap exchanges the elements at i and j.
func (b *Bag[T]) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
}

// Len returns the number of elements.
func (b *Bag[T]) Len() int {
	return len(b.items)
}

// At returns a pointer to the element at i. The pointer is invalidated by
// the next Add or RemoveAt.
func (b *Bag[T]) At(i int) *T {
	return &b.items[i]
}

// Get returns a copy of the element at i.
func (b *Bag[T]) Get(i int) T {
	return b.items[i]
}

// Clear removes every element, keeping the allocated capacity.
func (b *Bag[T]) Clear() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.items = b.items[:0]
}
