package ring

import "errors"

// ErrInsufficient is returned by batch reads requesting more elements than
// are currently buffered.
var ErrInsufficient = errors.New("ringbuffer: fewer elements available than requested")

// ErrInvalidCount is returned by batch reads given a negative element count.
var ErrInvalidCount = errors.New("ringbuffer: negative element count")

// Ring is a fixed-capacity FIFO over an owned slice. It is not safe for
// concurrent use; callers layer their own locking.
type Ring[T any] struct {
	items     []T
	writePos  int
	readPos   int
	available int
}

// New creates an engine with the given capacity. The caller validates that
// capacity is positive.
func New[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, capacity)}
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return r.available
}

// Free returns the number of vacant slots.
func (r *Ring[T]) Free() int {
	return len(r.items) - r.available
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Push stores v at the write cursor. It reports whether the element was
// accepted; a full ring rejects without mutation.
func (r *Ring[T]) Push(v T) bool {
	if r.available == len(r.items) {
		return false
	}
	r.items[r.writePos] = v
	r.writePos = r.advance(r.writePos, 1)
	r.available++
	return true
}

// Pop discards the oldest element. It reports whether an element was removed.
func (r *Ring[T]) Pop() bool {
	if r.available == 0 {
		return false
	}
	r.release(r.readPos)
	r.readPos = r.advance(r.readPos, 1)
	r.available--
	return true
}

// Front returns a copy of the oldest element without consuming it.
func (r *Ring[T]) Front() (T, bool) {
	var zero T
	if r.available == 0 {
		return zero, false
	}
	return r.items[r.readPos], true
}

// Read removes and returns the oldest element.
func (r *Ring[T]) Read() (T, bool) {
	var zero T
	if r.available == 0 {
		return zero, false
	}
	v := r.items[r.readPos]
	r.release(r.readPos)
	r.readPos = r.advance(r.readPos, 1)
	r.available--
	return v, true
}

// ReadInto drains the n oldest elements into emit, oldest first. reserve,
// when non-nil, is called with n before the first transfer. Each element is
// consumed before it is handed to the sink: a sink failure mid-batch returns
// the error with the elements transferred so far already removed, including
// the one the sink rejected. The returned count is the number of elements
// consumed.
func (r *Ring[T]) ReadInto(n int, reserve func(int), emit func(T) error) (int, error) {
	if n < 0 {
		return 0, ErrInvalidCount
	}
	if n > r.available {
		return 0, ErrInsufficient
	}
	if reserve != nil {
		reserve(n)
	}
	for i := 0; i < n; i++ {
		v := r.items[r.readPos]
		r.release(r.readPos)
		r.readPos = r.advance(r.readPos, 1)
		r.available--
		if err := emit(v); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}

// SafeReadInto is the all-or-nothing variant of ReadInto. The n oldest
// elements are staged into a snapshot before the sink sees any of them;
// cursors and the available count change only after every append succeeded.
// On failure the returned count is zero and the buffer is unchanged. The
// snapshot costs O(n) extra copies; callers that cannot afford it should use
// ReadInto plus their own recovery on failure.
func (r *Ring[T]) SafeReadInto(n int, reserve func(int), emit func(T) error) (int, error) {
	if n < 0 {
		return 0, ErrInvalidCount
	}
	if n > r.available {
		return 0, ErrInsufficient
	}
	staged := r.snapshot(n)
	if reserve != nil {
		reserve(n)
	}
	for _, v := range staged {
		if err := emit(v); err != nil {
			return 0, err
		}
	}
	for i := 0; i < n; i++ {
		r.release(r.advance(r.readPos, i))
	}
	r.readPos = r.advance(r.readPos, n)
	r.available -= n
	return n, nil
}

// Erase discards up to n oldest elements without returning them. It clamps to
// the available count and returns the number discarded.
func (r *Ring[T]) Erase(n int) int {
	if n <= 0 {
		return 0
	}
	m := min(n, r.available)
	for i := 0; i < m; i++ {
		r.release(r.readPos)
		r.readPos = r.advance(r.readPos, 1)
	}
	r.available -= m
	return m
}

// Clear discards every buffered element.
func (r *Ring[T]) Clear() {
	r.Erase(r.available)
}

// advance moves a cursor forward by step slots with wraparound. step may be
// as large as the capacity in a single call.
func (r *Ring[T]) advance(pos, step int) int {
	return (pos + step) % len(r.items)
}

// release zeroes a consumed slot so the element is not retained for GC.
func (r *Ring[T]) release(pos int) {
	var zero T
	r.items[pos] = zero
}
