package postgressink

import (
	"time"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

// Option defines a functional option for configuring the Sink.
type Option func(*Sink) error

// WithTableName sets the table name for the Sink.
func WithTableName(tableName string) Option {
	return func(s *Sink) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Sink.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing
// Info level: Event counts and durations
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that cause operation failures.
func WithLogger(logger observedseq.Logger) Option {
	return func(s *Sink) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Sink.
// It receives the same messages as the Logger, together with the context of the operation,
// which allows trace correlation when tracing is enabled.
func WithContextualLogger(logger observedseq.ContextualLogger) Option {
	return func(s *Sink) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Sink.
func WithMetrics(collector observedseq.MetricsCollector) Option {
	return func(s *Sink) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Sink, which receives one span per append or query.
func WithTracing(collector observedseq.TracingCollector) Option {
	return func(s *Sink) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithTimeout sets the timeout used when the Sink persists an event on behalf of an observer.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Sink) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}

		s.timeout = timeout

		return nil
	}
}

// WithErrorHandler sets a callback that receives every error the Sink's observer runs into.
// Observers can't return errors, so without a handler those errors are only logged and counted.
func WithErrorHandler(handler func(error)) Option {
	return func(s *Sink) error {
		if handler == nil {
			return ErrNilErrorHandler
		}

		s.errorHandler = handler

		return nil
	}
}
