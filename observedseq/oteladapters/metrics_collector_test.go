package oteladapters_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/oteladapters"
	. "github.com/AntonStoeckl/observable-sequence-go/testutil/observability/testdoubles" //nolint:revive
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "failed to collect metrics")

	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "append", "status": "success"}

	// act
	collector.RecordDuration("observedseq_sink_append_duration_seconds", 150*time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "observedseq_sink_append_duration_seconds", 50*time.Millisecond, labels)

	// assert
	histogram := findMetric[metricdata.Histogram[float64]](t, collect(t, reader), "observedseq_sink_append_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.2, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(attribute.String("operation", "append"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"kind": "modified", "operation": "append"}

	// act
	collector.IncrementCounter("observedseq_events_published_total", labels)
	collector.IncrementCounter("observedseq_events_published_total", labels)
	collector.IncrementCounterContext(context.Background(), "observedseq_events_published_total", labels)

	// assert
	counter := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "observedseq_events_published_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(3), counter.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "query"}

	// act
	collector.RecordValue("observedseq_sink_events_queried", 3, labels)
	collector.RecordValueContext(context.Background(), "observedseq_sink_events_queried", 7, labels)

	// assert
	gauge := findMetric[metricdata.Gauge[float64]](t, collect(t, reader), "observedseq_sink_events_queried")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.001, "a gauge keeps the last value")
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.IncrementCounter("observedseq_events_published_total", map[string]string{"operation": "append"})
	collector.IncrementCounter("observedseq_events_published_total", map[string]string{"operation": "sort"})

	// assert
	counter := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "observedseq_events_published_total")
	assert.Len(t, counter.DataPoints, 2)
}

func Test_MetricsCollector_IgnoresInstrumentsTheMeterRefuses(t *testing.T) {
	// arrange
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	collector := oteladapters.NewMetricsCollector(&failingMeter{Meter: provider.Meter("test")})

	// act & assert
	assert.NotPanics(t, func() {
		collector.RecordDuration("refused", time.Second, nil)
		collector.IncrementCounter("refused", nil)
		collector.RecordValue("refused", 1, nil)
	})
	assert.Empty(t, collect(t, reader).ScopeMetrics)
}

func Test_MetricsCollector_ReceivesTheMetricsOfASequence(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	recorder := NewEventRecorder[int]()

	// act
	seq, err := observedseq.NewWithOptions(recorder.Wiring(), []int{1, 2}, observedseq.WithMetrics(collector))
	require.NoError(t, err)
	seq.Append(3)

	// assert
	counter := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "observedseq_events_published_total")
	total := int64(0)
	for _, dataPoint := range counter.DataPoints {
		total += dataPoint.Value
	}
	assert.Equal(t, int64(2), total)
}

type failingMeter struct {
	metric.Meter
}

var errRefused = errors.New("instrument refused")

func (m *failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errRefused
}

func (m *failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errRefused
}

func (m *failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errRefused
}

func findMetric[D metricdata.Aggregation](t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) D {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if data, ok := m.Data.(D); ok && m.Name == name {
				return data
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	var zero D

	return zero
}
