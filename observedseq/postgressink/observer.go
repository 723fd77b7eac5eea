package postgressink

import (
	"context"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

// Observer returns an observer that persists every event it receives through the Sink.
//
// Each event is appended with its own timeout context. Failures never reach the publishing Channel:
// they are logged, counted, and passed to the error handler if one is configured.
func Observer[T any](sink *Sink) observedseq.Observer[T] {
	return observedseq.ObserverFunc[T](func(event observedseq.Event[T]) {
		persist(sink, event)
	})
}

// Wiring returns a Wiring that attaches the Sink's observer to every channel and then applies the next wirings.
// Derived sequences reuse the Wiring of their source, so their events end up in the same table.
func Wiring[T any](sink *Sink, next ...observedseq.Wiring[T]) observedseq.Wiring[T] {
	return func(channel *observedseq.Channel[T]) {
		channel.Attach(Observer[T](sink))

		for _, wiring := range next {
			if wiring != nil {
				wiring(channel)
			}
		}
	}
}

func persist[T any](s *Sink, event observedseq.Event[T]) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logArgs := []any{logAttrSequenceID, event.SequenceID().String(), logAttrPosition, event.Position()}

	storable, encodeErr := observedseq.StorableEventFrom(event)
	if encodeErr != nil {
		s.logError(ctx, logMsgPersistingEventFailed, encodeErr, logArgs...)
		s.recordError(ctx, operationAppend, errorTypeEncodeEvent)
		s.handleError(encodeErr)

		return
	}

	if _, appendErr := s.Append(ctx, storable); appendErr != nil {
		s.logError(ctx, logMsgPersistingEventFailed, appendErr, logArgs...)
		s.handleError(appendErr)
	}
}

func (s *Sink) handleError(err error) {
	if s.errorHandler != nil {
		s.errorHandler(err)
	}
}
