package ringbuffer

import "github.com/prometheus/client_golang/prometheus"

// Option configures a buffer at construction time.
type Option[T any] func(*ringOptions[T])

type ringOptions[T any] struct {
	dropCallback func(T)

	// metricsReg is optional; when set together with metricsName the buffer
	// additionally exports its counters as Prometheus metrics.
	metricsReg  prometheus.Registerer
	metricsName string
}

// WithDropCallback sets a callback invoked with every element rejected by a
// full buffer. The push itself stays a silent no-op; the callback is the only
// signal. On the concurrent variant the callback runs outside the buffer
// lock, so it may safely call back into the buffer.
func WithDropCallback[T any](fn func(T)) Option[T] {
	return func(opts *ringOptions[T]) {
		opts.dropCallback = fn
	}
}

// WithMetrics enables Prometheus export of the buffer's operation counters
// under the given registerer. name becomes the value of the "ring" label and
// must be unique per registerer. The option is ignored when registry is nil
// or name is empty.
func WithMetrics[T any](registry prometheus.Registerer, name string) Option[T] {
	return func(opts *ringOptions[T]) {
		if registry != nil && name != "" {
			opts.metricsReg = registry
			opts.metricsName = name
		}
	}
}

func applyOptions[T any](options ...Option[T]) *ringOptions[T] {
	opts := &ringOptions[T]{}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
