// Package ringbuffer provides fixed-capacity circular FIFO buffers for
// producer/consumer workloads where dynamic growth is disallowed and the
// memory footprint must be deterministic.
//
// Two variants share one engine. Ring is single-threaded; ConcurrentRing
// layers a single-writer/multi-reader exclusion discipline on top so one
// writer and many observers can share a buffer.
//
// Batch reads come in two tiers. ReadN is best-effort: a sink failure
// mid-batch leaves the buffer partially drained. SafeReadN is all-or-nothing:
// it stages a snapshot before the sink sees anything and commits the cursor
// advance only after every element was accepted, at the cost of O(n) extra
// copies.
//
// Pushing into a full buffer is a silent no-op. The dropped element is
// counted in the buffer's metrics and reported to an optional drop callback,
// but Push deliberately returns nothing.
package ringbuffer

import (
	"errors"

	"github.com/timzifer/ringbuffer/internal/ring"
	"github.com/timzifer/ringbuffer/internal/telemetry"
)

var (
	// ErrInvalidCapacity is returned by the constructors for a non-positive
	// capacity.
	ErrInvalidCapacity = errors.New("ringbuffer: capacity must be positive")

	// ErrEmpty is returned by Front and Read on an empty buffer.
	ErrEmpty = errors.New("ringbuffer: empty buffer access")

	// ErrInsufficient is returned by ReadN and SafeReadN when more elements
	// are requested than are buffered.
	ErrInsufficient = ring.ErrInsufficient

	// ErrInvalidCount is returned by ReadN and SafeReadN for a negative
	// element count.
	ErrInvalidCount = ring.ErrInvalidCount
)

// Ring is a fixed-capacity circular FIFO buffer. It is not safe for
// concurrent use; see ConcurrentRing for the thread-safe variant.
type Ring[T any] struct {
	engine *ring.Ring[T]
	ops    *telemetry.OpMetrics
	prom   *promMetrics
	opts   *ringOptions[T]
}

// New creates a buffer holding at most capacity elements. The capacity is
// fixed for the buffer's lifetime.
func New[T any](capacity int, options ...Option[T]) (*Ring[T], error) {
	engine, opts, prom, err := build[T](capacity, options...)
	if err != nil {
		return nil, err
	}
	return &Ring[T]{
		engine: engine,
		ops:    telemetry.NewOpMetrics(),
		prom:   prom,
		opts:   opts,
	}, nil
}

// build validates the capacity and materializes the shared construction
// pieces for both variants.
func build[T any](capacity int, options ...Option[T]) (*ring.Ring[T], *ringOptions[T], *promMetrics, error) {
	if capacity <= 0 {
		return nil, nil, nil, ErrInvalidCapacity
	}
	opts := applyOptions(options...)
	var prom *promMetrics
	if opts.metricsReg != nil {
		var err error
		prom, err = newPromMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return ring.New[T](capacity), opts, prom, nil
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return r.engine.Len()
}

// Free returns the number of vacant slots.
func (r *Ring[T]) Free() int {
	return r.engine.Free()
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return r.engine.Cap()
}

// Push appends v. When the buffer is full the element is silently dropped;
// the drop is counted and handed to the drop callback when one is set.
func (r *Ring[T]) Push(v T) {
	if r.engine.Push(v) {
		r.ops.Push()
		if r.prom != nil {
			r.prom.recordPush(r.engine.Len(), r.engine.Cap())
		}
		return
	}
	r.ops.Drop()
	if r.prom != nil {
		r.prom.recordDrop()
	}
	if r.opts.dropCallback != nil {
		r.opts.dropCallback(v)
	}
}

// Pop discards the oldest element. It reports whether an element was
// removed; popping an empty buffer is a no-op.
func (r *Ring[T]) Pop() bool {
	if !r.engine.Pop() {
		return false
	}
	r.ops.Pop()
	if r.prom != nil {
		r.prom.updateSize(r.engine.Len(), r.engine.Cap())
	}
	return true
}

// Front returns a copy of the oldest element without removing it.
func (r *Ring[T]) Front() (T, error) {
	v, ok := r.engine.Front()
	if !ok {
		return v, ErrEmpty
	}
	r.ops.Peek()
	if r.prom != nil {
		r.prom.recordPeek()
	}
	return v, nil
}

// Read removes and returns the oldest element.
func (r *Ring[T]) Read() (T, error) {
	v, ok := r.engine.Read()
	if !ok {
		return v, ErrEmpty
	}
	r.recordDrain(1)
	return v, nil
}

// ReadN drains the n oldest elements into sink, oldest first. When the sink
// implements ReserveSink, Reserve(n) is called before the first Append.
// ReadN is best-effort: a sink failure mid-batch is returned with the
// elements transferred so far already consumed. Requesting more elements
// than are buffered fails with ErrInsufficient before any transfer.
func (r *Ring[T]) ReadN(n int, sink Sink[T]) error {
	consumed, err := r.engine.ReadInto(n, reserveOf(sink), sink.Append)
	r.recordDrain(consumed)
	return err
}

// SafeReadN drains like ReadN but all-or-nothing: on any failure the buffer
// is left exactly as it was. The guarantee costs an O(n) staging copy.
func (r *Ring[T]) SafeReadN(n int, sink Sink[T]) error {
	consumed, err := r.engine.SafeReadInto(n, reserveOf(sink), sink.Append)
	r.recordDrain(consumed)
	return err
}

// ReadAll drains every buffered element into sink. Equivalent to
// ReadN(Len(), sink).
func (r *Ring[T]) ReadAll(sink Sink[T]) error {
	return r.ReadN(r.engine.Len(), sink)
}

// SafeReadAll drains every buffered element with the all-or-nothing
// guarantee. Equivalent to SafeReadN(Len(), sink).
func (r *Ring[T]) SafeReadAll(sink Sink[T]) error {
	return r.SafeReadN(r.engine.Len(), sink)
}

// Erase discards up to n oldest elements without returning them, clamping to
// the available count. It returns the number discarded and never fails.
func (r *Ring[T]) Erase(n int) int {
	m := r.engine.Erase(n)
	r.recordErase(m)
	return m
}

// Clear discards every buffered element.
func (r *Ring[T]) Clear() {
	r.recordErase(r.engine.Erase(r.engine.Len()))
}

// Metrics returns a snapshot of the buffer's operation counters.
func (r *Ring[T]) Metrics() telemetry.OpSnapshot {
	return r.ops.Snapshot()
}

func (r *Ring[T]) recordDrain(n int) {
	r.ops.Read(n)
	if r.prom != nil {
		r.prom.recordRead(n, r.engine.Len(), r.engine.Cap())
	}
}

func (r *Ring[T]) recordErase(n int) {
	r.ops.Erase(n)
	if r.prom != nil {
		r.prom.updateSize(r.engine.Len(), r.engine.Cap())
	}
}
