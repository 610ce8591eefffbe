package ringbuffer

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/timzifer/ringbuffer/internal/ring"
	"github.com/timzifer/ringbuffer/internal/telemetry"
)

// ConcurrentRing is the thread-safe variant of Ring for single-writer,
// multi-reader sharing. Every mutating call takes the exclusive side of a
// reader/writer lock for its full duration; Read and the batch reads count
// as writers here because they move the cursors even though they return
// data. Front takes the shared side, so any number of observers overlap as
// long as no mutator is active.
//
// Mutators from several goroutines serialize correctly; "single writer" is
// an assumption about producer identity for reasoning, not a safety
// requirement. No fairness is guaranteed among contending callers.
//
// Len and Free skip the lock entirely and read an atomically maintained
// mirror of the element count, so they observe coherent but possibly
// momentarily stale values during a concurrent mutation.
type ConcurrentRing[T any] struct {
	mu     sync.RWMutex
	engine *ring.Ring[T]
	ops    *telemetry.OpMetrics
	prom   *promMetrics
	opts   *ringOptions[T]

	// size mirrors engine.Len() for the lock-free getters. Padded so the
	// mirror does not share a cache line with the lock word.
	_    cpu.CacheLinePad
	size atomic.Int64
	_    cpu.CacheLinePad
}

// NewConcurrent creates a thread-safe buffer holding at most capacity
// elements.
func NewConcurrent[T any](capacity int, options ...Option[T]) (*ConcurrentRing[T], error) {
	engine, opts, prom, err := build[T](capacity, options...)
	if err != nil {
		return nil, err
	}
	return &ConcurrentRing[T]{
		engine: engine,
		ops:    telemetry.NewOpMetrics(),
		prom:   prom,
		opts:   opts,
	}, nil
}

// Len returns the number of buffered elements without taking the lock.
func (c *ConcurrentRing[T]) Len() int {
	return int(c.size.Load())
}

// Free returns the number of vacant slots without taking the lock.
func (c *ConcurrentRing[T]) Free() int {
	return c.engine.Cap() - c.Len()
}

// Cap returns the fixed capacity.
func (c *ConcurrentRing[T]) Cap() int {
	return c.engine.Cap() // immutable, no lock needed
}

// Push appends v, silently dropping it when the buffer is full. The drop
// callback, when set, runs after the lock is released.
func (c *ConcurrentRing[T]) Push(v T) {
	c.mu.Lock()
	ok := c.engine.Push(v)
	if ok {
		c.size.Store(int64(c.engine.Len()))
		c.ops.Push()
		if c.prom != nil {
			c.prom.recordPush(c.engine.Len(), c.engine.Cap())
		}
	} else {
		c.ops.Drop()
		if c.prom != nil {
			c.prom.recordDrop()
		}
	}
	c.mu.Unlock()

	if !ok && c.opts.dropCallback != nil {
		c.opts.dropCallback(v)
	}
}

// Pop discards the oldest element, reporting whether one was removed.
func (c *ConcurrentRing[T]) Pop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.engine.Pop() {
		return false
	}
	c.size.Store(int64(c.engine.Len()))
	c.ops.Pop()
	if c.prom != nil {
		c.prom.updateSize(c.engine.Len(), c.engine.Cap())
	}
	return true
}

// Front returns a copy of the oldest element without removing it. It takes
// only the shared lock, so concurrent Front calls do not serialize.
func (c *ConcurrentRing[T]) Front() (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.engine.Front()
	if !ok {
		return v, ErrEmpty
	}
	c.ops.Peek()
	if c.prom != nil {
		c.prom.recordPeek()
	}
	return v, nil
}

// Read removes and returns the oldest element. It takes the exclusive lock:
// with respect to locking, Read is a writer.
func (c *ConcurrentRing[T]) Read() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.engine.Read()
	if !ok {
		return v, ErrEmpty
	}
	c.recordDrainLocked(1)
	return v, nil
}

// ReadN drains the n oldest elements into sink under the exclusive lock.
// Semantics match Ring.ReadN, including partial consumption when the sink
// fails mid-batch. The sink's methods run while the lock is held and must
// not call back into the buffer.
func (c *ConcurrentRing[T]) ReadN(n int, sink Sink[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	consumed, err := c.engine.ReadInto(n, reserveOf(sink), sink.Append)
	c.recordDrainLocked(consumed)
	return err
}

// SafeReadN drains all-or-nothing under the exclusive lock. The staging
// snapshot and the commit happen in the same critical section, so a failure
// leaves the buffer bit-identical. Semantics match Ring.SafeReadN.
func (c *ConcurrentRing[T]) SafeReadN(n int, sink Sink[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	consumed, err := c.engine.SafeReadInto(n, reserveOf(sink), sink.Append)
	c.recordDrainLocked(consumed)
	return err
}

// ReadAll drains every buffered element, evaluated against the count inside
// the critical section.
func (c *ConcurrentRing[T]) ReadAll(sink Sink[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	consumed, err := c.engine.ReadInto(c.engine.Len(), reserveOf(sink), sink.Append)
	c.recordDrainLocked(consumed)
	return err
}

// SafeReadAll drains every buffered element all-or-nothing, evaluated
// against the count inside the critical section.
func (c *ConcurrentRing[T]) SafeReadAll(sink Sink[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	consumed, err := c.engine.SafeReadInto(c.engine.Len(), reserveOf(sink), sink.Append)
	c.recordDrainLocked(consumed)
	return err
}

// Erase discards up to n oldest elements, clamping to the available count.
func (c *ConcurrentRing[T]) Erase(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.eraseLocked(n)
}

// Clear discards every buffered element.
func (c *ConcurrentRing[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.eraseLocked(c.engine.Len())
}

// Metrics returns a snapshot of the buffer's operation counters.
func (c *ConcurrentRing[T]) Metrics() telemetry.OpSnapshot {
	return c.ops.Snapshot()
}

func (c *ConcurrentRing[T]) eraseLocked(n int) int {
	m := c.engine.Erase(n)
	c.size.Store(int64(c.engine.Len()))
	c.ops.Erase(m)
	if c.prom != nil {
		c.prom.updateSize(c.engine.Len(), c.engine.Cap())
	}
	return m
}

func (c *ConcurrentRing[T]) recordDrainLocked(n int) {
	c.size.Store(int64(c.engine.Len()))
	c.ops.Read(n)
	if c.prom != nil {
		c.prom.recordRead(n, c.engine.Len(), c.engine.Cap())
	}
}
