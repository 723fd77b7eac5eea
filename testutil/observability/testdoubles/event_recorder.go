package testdoubles

import (
	"slices"
	"sync"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

// EventRecorder records every event published on the channels it was wired to, in delivery order.
// Use its Wiring for a whole test: derived sequences reuse the wiring, so their events land in the
// same list as the events of the sequence they were derived from.
type EventRecorder[T any] struct {
	events   observedseq.Events[T]
	channels int
	mu       sync.Mutex
}

// NewEventRecorder creates an empty EventRecorder.
func NewEventRecorder[T any]() *EventRecorder[T] {
	return &EventRecorder[T]{events: make(observedseq.Events[T], 0)}
}

// Wiring returns a Wiring that attaches the recorder to every channel it is applied to.
func (r *EventRecorder[T]) Wiring() observedseq.Wiring[T] {
	return func(channel *observedseq.Channel[T]) {
		r.mu.Lock()
		r.channels++
		r.mu.Unlock()

		channel.Attach(observedseq.ObserverFunc[T](r.Observe))
	}
}

// Observe implements observedseq.Observer.
func (r *EventRecorder[T]) Observe(event observedseq.Event[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// Events returns a copy of all recorded events.
func (r *EventRecorder[T]) Events() observedseq.Events[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *EventRecorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

// Last returns the most recently recorded event and false if nothing was recorded yet.
func (r *EventRecorder[T]) Last() (observedseq.Event[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return observedseq.Event[T]{}, false
	}

	return r.events[len(r.events)-1], true
}

// WiredChannels returns how many channels the recorder's Wiring was applied to.
func (r *EventRecorder[T]) WiredChannels() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.channels
}

// Operations returns the operation names of the recorded events, in order.
func (r *EventRecorder[T]) Operations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	operations := make([]string, 0, len(r.events))
	for _, event := range r.events {
		operations = append(operations, event.Operation())
	}

	return operations
}

// Reset clears the recorded events. The recorder stays attached to its channels.
func (r *EventRecorder[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = r.events[:0]
}
