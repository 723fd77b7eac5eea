// Package oteladapters provides OpenTelemetry implementations of the observedseq observability interfaces:
// MetricsCollector, TracingCollector, and two contextual loggers.
//
//	collector := oteladapters.NewMetricsCollector(meterProvider.Meter("seqdemo"))
//	seq, _ := observedseq.NewWithOptions(wiring, items, observedseq.WithMetrics(collector))
package oteladapters
