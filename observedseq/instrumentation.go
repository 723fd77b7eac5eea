package observedseq

import (
	"errors"
	"fmt"
	"time"
)

const (
	logMsgSequenceCreated  = "sequence created"
	logMsgEventPublished   = "event published"
	logMsgObserverPanicked = "observer panicked, event delivery continues"
	logAttrError           = "error"
	logAttrSequenceID      = "sequence_id"
	logAttrParentID        = "parent_sequence_id"
	logAttrKind            = "kind"
	logAttrOperation       = "operation"
	logAttrPosition        = "position"
	logAttrElementCount    = "element_count"
	metricEventsPublished  = "observedseq_events_published_total"
	metricPublishDuration  = "observedseq_publish_duration_seconds"
	metricReplayedEvents   = "observedseq_replayed_events"
	metricObserverFaults   = "observedseq_observer_faults_total"
	labelKind              = "kind"
	labelOperation         = "operation"
)

// logPublished logs every published event at debug level if the logger is configured.
func (c *Channel[T]) logPublished(event Event[T]) {
	if c.settings.logger != nil {
		c.settings.logger.Debug(
			logMsgEventPublished,
			logAttrSequenceID, c.id.String(),
			logAttrPosition, event.Position(),
			logAttrKind, event.Kind().String(),
			logAttrOperation, event.Operation(),
			logAttrElementCount, len(event.snapshot),
		)
	}
}

// recordPublished records the publication counter and the fan-out duration if the metrics collector is configured.
func (c *Channel[T]) recordPublished(event Event[T], duration time.Duration) {
	if c.settings.metricsCollector != nil {
		labels := map[string]string{
			labelKind:      event.Kind().String(),
			labelOperation: event.Operation(),
		}

		c.settings.metricsCollector.IncrementCounter(metricEventsPublished, labels)
		c.settings.metricsCollector.RecordDuration(metricPublishDuration, duration, labels)
	}
}

// recordReplayed records how many historical events a newly attached observer is about to receive.
func (c *Channel[T]) recordReplayed(count int) {
	if c.settings.metricsCollector != nil {
		c.settings.metricsCollector.RecordValue(metricReplayedEvents, float64(count), map[string]string{})
	}
}

// reportObserverPanic logs and counts an observer fault.
func (c *Channel[T]) reportObserverPanic(event Event[T], recovered any) {
	err := errors.Join(ErrObserverPanicked, fmt.Errorf("%v", recovered))

	if c.settings.logger != nil {
		c.settings.logger.Error(
			logMsgObserverPanicked,
			logAttrError, err.Error(),
			logAttrSequenceID, c.id.String(),
			logAttrPosition, event.Position(),
			logAttrOperation, event.Operation(),
		)
	}

	if c.settings.metricsCollector != nil {
		c.settings.metricsCollector.IncrementCounter(metricObserverFaults, map[string]string{
			labelOperation: event.Operation(),
		})
	}
}

// logCreated logs the construction of a sequence at debug level if the logger is configured.
func (s *Sequence[T]) logCreated(parent *Sequence[T]) {
	if s.settings.logger == nil {
		return
	}

	args := []any{logAttrSequenceID, s.id.String(), logAttrElementCount, len(s.items)}
	if parent != nil {
		args = append(args, logAttrParentID, parent.id.String())
	}

	s.settings.logger.Debug(logMsgSequenceCreated, args...)
}
