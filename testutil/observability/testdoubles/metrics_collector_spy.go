package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

// MetricType distinguishes the three kinds of metric calls a MetricsCollector receives.
type MetricType string

// The metric types recorded by MetricsCollectorSpy.
const (
	MetricTypeDuration MetricType = "duration"
	MetricTypeCounter  MetricType = "counter"
	MetricTypeValue    MetricType = "value"
)

// SpyMetricRecord represents one recorded metric call.
type SpyMetricRecord struct {
	Type       MetricType
	Metric     string
	Duration   time.Duration
	Value      float64
	Labels     map[string]string
	HasContext bool
}

// MetricsCollectorSpy captures metric calls for testing.
// It implements observedseq.ContextualMetricsCollector, so the postgres sink picks the context-aware methods.
type MetricsCollectorSpy struct {
	records     []SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to false to get a collector that accepts and drops every call.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		records:     make([]SpyMetricRecord, 0),
		recordCalls: recordCalls,
	}
}

// RecordDuration implements observedseq.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Type: MetricTypeDuration, Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements observedseq.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Type: MetricTypeCounter, Metric: metric, Labels: labels})
}

// RecordValue implements observedseq.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Type: MetricTypeValue, Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext implements observedseq.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordDurationContext(
	_ context.Context,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	s.record(SpyMetricRecord{Type: MetricTypeDuration, Metric: metric, Duration: duration, Labels: labels, HasContext: true})
}

// IncrementCounterContext implements observedseq.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Type: MetricTypeCounter, Metric: metric, Labels: labels, HasContext: true})
}

// RecordValueContext implements observedseq.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordValueContext(
	_ context.Context,
	metric string,
	value float64,
	labels map[string]string,
) {
	s.record(SpyMetricRecord{Type: MetricTypeValue, Metric: metric, Value: value, Labels: labels, HasContext: true})
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	if record.Labels == nil {
		record.Labels = map[string]string{}
	}

	s.records = append(s.records, record)
}

// GetRecords returns a copy of all captured records of the given type.
func (s *MetricsCollectorSpy) GetRecords(metricType MetricType) []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyMetricRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.Type == metricType {
			records = append(records, record)
		}
	}

	return records
}

// GetRecordCount returns the number of captured records over all types.
func (s *MetricsCollectorSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Reset clears all captured records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// CountRecordsForMetric counts the captured records of the given type and metric name.
func (s *MetricsCollectorSpy) CountRecordsForMetric(metricType MetricType, metric string) int {
	count := 0
	for _, record := range s.GetRecords(metricType) {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
// Every condition narrows the candidate set, Assert reports whether any candidate survived.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// HasDurationRecordForMetric starts a fluent chain over the duration records of a metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(MetricTypeDuration, metric)
}

// HasCounterRecordForMetric starts a fluent chain over the counter records of a metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(MetricTypeCounter, metric)
}

// HasValueRecordForMetric starts a fluent chain over the value records of a metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(MetricTypeValue, metric)
}

func (s *MetricsCollectorSpy) matcherFor(metricType MetricType, metric string) *MetricRecordMatcher {
	matcher := &MetricRecordMatcher{}
	for _, record := range s.GetRecords(metricType) {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

// WithLabel keeps the records carrying the label with the given value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		labelValue, exists := record.Labels[key]
		return exists && labelValue == value
	})
}

// WithOperation keeps the records carrying the given operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithKind keeps the records carrying the given event kind label.
func (m *MetricRecordMatcher) WithKind(kind observedseq.Kind) *MetricRecordMatcher {
	return m.WithLabel("kind", kind.String())
}

// WithStatus keeps the records carrying the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithValue keeps the value records with exactly the given value.
func (m *MetricRecordMatcher) WithValue(value float64) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.Value == value
	})
}

// WithContext keeps the records that were made through a context-aware method.
func (m *MetricRecordMatcher) WithContext() *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.HasContext
	})
}

func (m *MetricRecordMatcher) keep(predicate func(SpyMetricRecord) bool) *MetricRecordMatcher {
	kept := m.candidates[:0:0]
	for _, record := range m.candidates {
		if predicate(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// Assert returns true if at least one record satisfied all conditions in the fluent chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

// Compile-time check to ensure MetricsCollectorSpy implements the ContextualMetricsCollector interface.
var _ observedseq.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
