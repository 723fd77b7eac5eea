package observedseq

import (
	"time"

	"golang.org/x/text/language"
)

// settings holds the configuration a Sequence hands down to its Channel and to every sequence derived from it.
type settings struct {
	logger           Logger
	metricsCollector MetricsCollector
	clock            func() time.Time
	locale           language.Tag
}

func defaultSettings() settings {
	return settings{
		clock:  time.Now,
		locale: language.English,
	}
}

// Option defines a functional option for configuring a Sequence (and its Channel).
// Options are propagated unchanged to derived sequences.
type Option func(*settings) error

// WithLogger sets the logger for the Sequence and its Channel.
// The logger will receive messages at different levels:
//
// Debug level: construction and every published event (development use)
// Error level: observers that panicked while handling an event.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return ErrNilLogger
		}

		s.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Sequence and its Channel.
// The collector receives published event counts, publication durations, replayed event counts
// and observer faults.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *settings) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		s.metricsCollector = collector

		return nil
	}
}

// WithClock sets the function used to timestamp events. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) error {
		if clock == nil {
			return ErrNilClock
		}

		s.clock = clock

		return nil
	}
}

// WithLocale sets the locale used by ToLocaleDisplayString. Defaults to English.
func WithLocale(locale language.Tag) Option {
	return func(s *settings) error {
		s.locale = locale
		return nil
	}
}
