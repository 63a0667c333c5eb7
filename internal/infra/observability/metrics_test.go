//go:build unit

package observability_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"library-lending/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newCollector(t *testing.T) (*observability.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider, err := observability.NewMeterProvider(context.Background(), "lending-test", reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return observability.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func find(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return metricdata.Metrics{}
}

func TestMetricsCollector_RecordDuration(t *testing.T) {
	collector, reader := newCollector(t)

	collector.RecordDuration(context.Background(), "lending.operation.duration", 250*time.Millisecond,
		map[string]string{"operation": "borrow", "outcome": "success"})

	m := find(t, collect(t, reader), "lending.operation.duration")
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)

	dp := hist.DataPoints[0]
	assert.Equal(t, uint64(1), dp.Count)
	assert.InDelta(t, 0.25, dp.Sum, 0.001)
	want := attribute.NewSet(
		attribute.String("operation", "borrow"),
		attribute.String("outcome", "success"),
	)
	assert.True(t, dp.Attributes.Equals(&want))
	assert.Equal(t, "s", m.Unit)
}

func TestMetricsCollector_IncrementCounter(t *testing.T) {
	collector, reader := newCollector(t)
	labels := map[string]string{"backend": "postgres", "operation": "pool.acquire"}

	for iter := 0; iter < 3; iter++ {
		collector.IncrementCounter(context.Background(), "storage.retry.attempts", labels)
	}
	collector.IncrementCounter(context.Background(), "storage.retry.attempts",
		map[string]string{"backend": "mongo", "operation": "pool.acquire"})

	sum, ok := find(t, collect(t, reader), "storage.retry.attempts").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)

	byBackend := map[string]int64{}
	for _, dp := range sum.DataPoints {
		backend, _ := dp.Attributes.Value("backend")
		byBackend[backend.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"postgres": 3, "mongo": 1}, byBackend)
}

func TestMetricsCollector_ConcurrentInstrumentCreation(t *testing.T) {
	collector, reader := newCollector(t)

	var wg sync.WaitGroup
	for iter := 0; iter < 20; iter++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter(context.Background(), "lending.operation.total", nil)
		}()
	}
	wg.Wait()

	sum, ok := find(t, collect(t, reader), "lending.operation.total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

func TestNewMeterProvider_ResourceCarriesServiceName(t *testing.T) {
	collector, reader := newCollector(t)
	collector.IncrementCounter(context.Background(), "lending.operation.total", nil)

	rm := collect(t, reader)
	name, ok := rm.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "lending-test", name.AsString())
}
