package ringbuffer

import "slices"

// Sink receives elements drained from a buffer in FIFO order. Append returns
// an error to reject an element; how the buffer reacts depends on the read
// tier (see ReadN and SafeReadN).
type Sink[T any] interface {
	Append(v T) error
}

// ReserveSink is a Sink that can pre-allocate space. Batch reads call
// Reserve with the exact element count before the first Append so the sink
// avoids incremental growth.
type ReserveSink[T any] interface {
	Sink[T]
	Reserve(n int)
}

// reserveOf returns the sink's Reserve method when it has one.
func reserveOf[T any](sink Sink[T]) func(int) {
	if rs, ok := sink.(ReserveSink[T]); ok {
		return rs.Reserve
	}
	return nil
}

// SliceSink collects drained elements into a slice. It implements
// ReserveSink and never rejects an element.
type SliceSink[T any] struct {
	values []T
}

// NewSliceSink creates an empty slice sink.
func NewSliceSink[T any]() *SliceSink[T] {
	return &SliceSink[T]{}
}

// Append adds v to the collected values.
func (s *SliceSink[T]) Append(v T) error {
	s.values = append(s.values, v)
	return nil
}

// Reserve grows the backing slice to hold n more elements.
func (s *SliceSink[T]) Reserve(n int) {
	s.values = slices.Grow(s.values, n)
}

// Values returns the collected elements in arrival order.
func (s *SliceSink[T]) Values() []T {
	return s.values
}

// Reset discards the collected elements but keeps the backing storage.
func (s *SliceSink[T]) Reset() {
	s.values = s.values[:0]
}
