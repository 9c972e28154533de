package dashboard

// RingBuffer is a generic circular buffer with a fixed capacity.
type RingBuffer[T any] struct {
	items    []T
	head     int
	size     int
	capacity int
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Add adds an item, overwriting the oldest once full.
func (r *RingBuffer[T]) Add(item T) {
	if r.size < r.capacity {
		r.items = append(r.items, item)
		r.size++
		return
	}
	r.items[r.head] = item
	r.head = (r.head + 1) % r.capacity
}

// Items returns all items oldest first.
func (r *RingBuffer[T]) Items() []T {
	result := make([]T, r.size)
	for i := range r.size {
		result[i] = r.items[(r.head+i)%r.size]
	}
	return result
}

// Len returns the number of items in the buffer.
func (r *RingBuffer[T]) Len() int {
	return r.size
}

// Latest returns the most recently added item.
func (r *RingBuffer[T]) Latest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.items[(r.head+r.size-1)%r.size], true
}
