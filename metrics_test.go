package ringbuffer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestWithMetricsExportsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	r, err := New[int](2, WithMetrics[int](registry, "test_ring"))
	require.NoError(t, err)

	r.Push(1)
	r.Push(2)
	r.Push(3) // dropped
	_, err = r.Front()
	require.NoError(t, err)

	sink := NewSliceSink[int]()
	require.NoError(t, r.ReadAll(sink))

	require.Equal(t, float64(2), testutil.ToFloat64(r.prom.pushes))
	require.Equal(t, float64(1), testutil.ToFloat64(r.prom.drops))
	require.Equal(t, float64(2), testutil.ToFloat64(r.prom.reads))
	require.Equal(t, float64(1), testutil.ToFloat64(r.prom.peeks))
	require.Equal(t, float64(0), testutil.ToFloat64(r.prom.size))
	require.Equal(t, float64(0), testutil.ToFloat64(r.prom.utilization))
}

func TestWithMetricsGaugesTrackSize(t *testing.T) {
	registry := prometheus.NewRegistry()
	r, err := NewConcurrent[int](4, WithMetrics[int](registry, "gauge_ring"))
	require.NoError(t, err)

	r.Push(1)
	r.Push(2)
	require.Equal(t, float64(2), testutil.ToFloat64(r.prom.size))
	require.Equal(t, 0.5, testutil.ToFloat64(r.prom.utilization))

	r.Pop()
	require.Equal(t, float64(1), testutil.ToFloat64(r.prom.size))

	r.Clear()
	require.Equal(t, float64(0), testutil.ToFloat64(r.prom.size))
}

func TestWithMetricsDuplicateRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New[int](2, WithMetrics[int](registry, "dup"))
	require.NoError(t, err)

	_, err = New[int](2, WithMetrics[int](registry, "dup"))
	require.Error(t, err)
}

func TestWithMetricsIgnoredWithoutRegistry(t *testing.T) {
	r, err := New[int](2, WithMetrics[int](nil, "ignored"))
	require.NoError(t, err)
	require.Nil(t, r.prom)

	registry := prometheus.NewRegistry()
	r, err = New[int](2, WithMetrics[int](registry, ""))
	require.NoError(t, err)
	require.Nil(t, r.prom)
}
