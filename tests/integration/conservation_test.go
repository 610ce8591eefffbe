package integration

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/timzifer/ringbuffer"
)

// TestConcurrentConservation checks the central accounting property under
// sustained contention: every element the buffer accepted is observed exactly
// once by some read, or is still buffered at the end. Values are globally
// unique so duplicates are detectable.
func TestConcurrentConservation(t *testing.T) {
	const (
		capacity = 64
		total    = 5000
		readers  = 3
	)

	var dropped atomic.Int64
	buf, err := ringbuffer.NewConcurrent[int](capacity,
		ringbuffer.WithDropCallback(func(int) { dropped.Add(1) }))
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}

	seen := make([]bool, total)
	var seenMu sync.Mutex
	var drainedCount atomic.Int64

	record := func(values []int) {
		seenMu.Lock()
		defer seenMu.Unlock()
		for _, v := range values {
			if v < 0 || v >= total {
				t.Errorf("read value out of range: %d", v)
				continue
			}
			if seen[v] {
				t.Errorf("duplicate value read: %d", v)
				continue
			}
			seen[v] = true
		}
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < total; i++ {
			buf.Push(i)
			if i%7 == 0 {
				runtime.Gosched()
			}
		}
	}()

	var readerWG sync.WaitGroup
	readerWG.Add(readers)
	stop := make(chan struct{})
	for i := 0; i < readers; i++ {
		go func(id int) {
			defer readerWG.Done()
			sink := ringbuffer.NewSliceSink[int]()
			for {
				sink.Reset()
				// Alternate between the two batch tiers and single reads so
				// every drain path participates in the accounting.
				var err error
				switch id % 3 {
				case 0:
					err = buf.ReadAll(sink)
				case 1:
					err = buf.SafeReadAll(sink)
				default:
					if v, rerr := buf.Read(); rerr == nil {
						err = sink.Append(v)
					}
				}
				if err != nil {
					t.Errorf("reader %d failed: %v", id, err)
					return
				}
				if n := len(sink.Values()); n > 0 {
					drainedCount.Add(int64(n))
					record(sink.Values())
				}
				select {
				case <-stop:
					return
				default:
					runtime.Gosched()
				}
			}
		}(i)
	}

	<-writerDone
	time.Sleep(10 * time.Millisecond)
	close(stop)
	readerWG.Wait()

	// Final sweep of whatever the readers left behind.
	rest := ringbuffer.NewSliceSink[int]()
	if err := buf.ReadAll(rest); err != nil {
		t.Fatalf("final drain failed: %v", err)
	}
	drainedCount.Add(int64(len(rest.Values())))
	record(rest.Values())

	accepted := int64(total) - dropped.Load()
	if drainedCount.Load() != accepted {
		t.Fatalf("conservation violated: accepted %d, drained %d", accepted, drainedCount.Load())
	}

	metrics := buf.Metrics()
	if metrics.Pushes+metrics.Drops != total {
		t.Fatalf("push accounting off: pushes=%d drops=%d total=%d",
			metrics.Pushes, metrics.Drops, total)
	}
	if metrics.Reads != uint64(drainedCount.Load()) {
		t.Fatalf("read accounting off: metric=%d observed=%d", metrics.Reads, drainedCount.Load())
	}
}

// TestObserversNeverBlockMutators runs a mutator against a herd of pure
// observers and checks that every Front observation is internally coherent:
// the value must be one the writer published, never a torn or stale slot
// resurrected after consumption.
func TestObserversNeverBlockMutators(t *testing.T) {
	const (
		capacity  = 8
		rounds    = 3000
		observers = 4
	)

	buf, err := ringbuffer.NewConcurrent[uint64](capacity)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}

	var published atomic.Uint64
	done := make(chan struct{})

	var observerWG sync.WaitGroup
	observerWG.Add(observers)
	for i := 0; i < observers; i++ {
		go func() {
			defer observerWG.Done()
			for {
				if v, err := buf.Front(); err == nil {
					if v == 0 || v > published.Load() {
						t.Errorf("front observed unpublished value %d", v)
						return
					}
				}
				if n, c := buf.Len(), buf.Cap(); n < 0 || n > c {
					t.Errorf("observer saw impossible size %d (cap %d)", n, c)
					return
				}
				select {
				case <-done:
					return
				default:
					runtime.Gosched()
				}
			}
		}()
	}

	for i := uint64(1); i <= rounds; i++ {
		published.Store(i)
		buf.Push(i)
		if i%2 == 0 {
			buf.Pop()
		}
		if i%5 == 0 {
			buf.Erase(1)
		}
	}

	close(done)
	observerWG.Wait()
}
