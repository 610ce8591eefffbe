package ringbuffer

import "github.com/prometheus/client_golang/prometheus"

// promMetrics mirrors the telemetry counters as Prometheus metrics for
// buffers constructed with WithMetrics.
type promMetrics struct {
	pushes prometheus.Counter
	drops  prometheus.Counter
	reads  prometheus.Counter
	peeks  prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
}

func newPromMetrics(registry prometheus.Registerer, name string) (*promMetrics, error) {
	labels := prometheus.Labels{"ring": name}
	m := &promMetrics{
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Name:        "pushes_total",
			ConstLabels: labels,
			Help:        "Total number of accepted push operations",
		}),
		drops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Name:        "drops_total",
			ConstLabels: labels,
			Help:        "Total number of pushes rejected by a full buffer",
		}),
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Name:        "reads_total",
			ConstLabels: labels,
			Help:        "Total number of elements drained by read operations",
		}),
		peeks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Name:        "peeks_total",
			ConstLabels: labels,
			Help:        "Total number of front accesses",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ringbuffer",
			Name:        "size",
			ConstLabels: labels,
			Help:        "Current number of buffered elements",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ringbuffer",
			Name:        "utilization",
			ConstLabels: labels,
			Help:        "Buffered elements as a fraction of capacity (0.0 to 1.0)",
		}),
	}

	collectors := []prometheus.Collector{
		m.pushes, m.drops, m.reads, m.peeks, m.size, m.utilization,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *promMetrics) recordPush(size, capacity int) {
	m.pushes.Inc()
	m.updateSize(size, capacity)
}

func (m *promMetrics) recordDrop() {
	m.drops.Inc()
}

func (m *promMetrics) recordRead(n, size, capacity int) {
	if n > 0 {
		m.reads.Add(float64(n))
	}
	m.updateSize(size, capacity)
}

func (m *promMetrics) recordPeek() {
	m.peeks.Inc()
}

func (m *promMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}
