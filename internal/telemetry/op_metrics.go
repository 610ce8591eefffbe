// Package telemetry collects per-buffer operation counters. The counters are
// plain atomics so the hot path stays allocation- and dependency-free;
// exporting them to an external metrics system happens at the public layer.
package telemetry

import "sync/atomic"

// OpMetrics accumulates operation counts for a single buffer instance.
type OpMetrics struct {
	pushes atomic.Uint64
	drops  atomic.Uint64
	pops   atomic.Uint64
	reads  atomic.Uint64
	peeks  atomic.Uint64
	erases atomic.Uint64
}

// NewOpMetrics creates an empty counter set.
func NewOpMetrics() *OpMetrics {
	return &OpMetrics{}
}

// Push records an accepted write.
func (m *OpMetrics) Push() {
	m.pushes.Add(1)
}

// Drop records a write rejected by a full buffer.
func (m *OpMetrics) Drop() {
	m.drops.Add(1)
}

// Pop records a discarded element.
func (m *OpMetrics) Pop() {
	m.pops.Add(1)
}

// Read records n elements drained by a read operation of either tier.
func (m *OpMetrics) Read(n int) {
	if n > 0 {
		m.reads.Add(uint64(n))
	}
}

// Peek records a front access.
func (m *OpMetrics) Peek() {
	m.peeks.Add(1)
}

// Erase records n elements discarded by erase or clear.
func (m *OpMetrics) Erase(n int) {
	if n > 0 {
		m.erases.Add(uint64(n))
	}
}

// OpSnapshot is a point-in-time copy of the counters.
type OpSnapshot struct {
	Pushes uint64
	Drops  uint64
	Pops   uint64
	Reads  uint64
	Peeks  uint64
	Erases uint64
}

// Snapshot returns the current counter values.
func (m *OpMetrics) Snapshot() OpSnapshot {
	return OpSnapshot{
		Pushes: m.pushes.Load(),
		Drops:  m.drops.Load(),
		Pops:   m.pops.Load(),
		Reads:  m.reads.Load(),
		Peeks:  m.peeks.Load(),
		Erases: m.erases.Load(),
	}
}

// Reset sets every counter back to zero.
func (m *OpMetrics) Reset() {
	m.pushes.Store(0)
	m.drops.Store(0)
	m.pops.Store(0)
	m.reads.Store(0)
	m.peeks.Store(0)
	m.erases.Store(0)
}
