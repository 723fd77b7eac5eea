package observedseq

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Observer receives the events published on a Channel.
type Observer[T any] interface {
	Observe(event Event[T])
}

// ObserverFunc is an adapter to allow the use of ordinary functions as Observer.
type ObserverFunc[T any] func(event Event[T])

// Observe calls f(event).
func (f ObserverFunc[T]) Observe(event Event[T]) {
	f(event)
}

// Channel is the replaying broadcast stream owned by exactly one Sequence.
//
// It is an append-only history of events plus one cursor per attached observer:
//   - Publish appends an event and delivers it synchronously to every attached observer
//   - Attach replays the complete history to the new observer, then keeps it up to date
//
// Every observer receives events in publication order, also when an observer publishes
// (by operating on the observed sequence) while it is being notified.
// An observer that panics is recovered and reported; it does not affect the other observers.
type Channel[T any] struct {
	id            uuid.UUID
	history       Events[T]
	subscriptions []*Subscription[T]
	draining      bool
	settings      settings
}

// Subscription is the attachment of one Observer to a Channel.
type Subscription[T any] struct {
	channel  *Channel[T]
	observer Observer[T]
	cursor   int
	detached bool
}

// NewChannel creates a standalone Channel with a fresh ID.
// Sequences create their own Channel; this is meant for observers that want to relay events.
func NewChannel[T any](options ...Option) (*Channel[T], error) {
	s := defaultSettings()

	for _, option := range options {
		if err := option(&s); err != nil {
			return nil, err
		}
	}

	return newChannel[T](newSequenceID(), s), nil
}

func newChannel[T any](id uuid.UUID, s settings) *Channel[T] {
	return &Channel[T]{
		id:       id,
		history:  make(Events[T], 0),
		settings: s,
	}
}

// ID returns the ID shared by the Channel and its Sequence.
func (c *Channel[T]) ID() uuid.UUID {
	return c.id
}

// Len returns the number of events published so far.
func (c *Channel[T]) Len() int {
	return len(c.history)
}

// History returns a copy of all events published so far, in publication order.
func (c *Channel[T]) History() Events[T] {
	return slices.Clone(c.history)
}

// Publish stamps the event with the Channel's ID and the next position, appends it to the history
// and delivers it to every attached observer before it returns.
func (c *Channel[T]) Publish(event Event[T]) {
	start := time.Now()

	event = event.stamped(c.id, PositionUint(len(c.history)+1))
	c.history = append(c.history, event)
	c.logPublished(event)

	c.drain()

	c.recordPublished(event, time.Since(start))
}

// Attach registers the observer. All previously published events are replayed to it,
// in publication order, before Attach returns; all future events follow.
// A nil observer yields an already detached Subscription.
func (c *Channel[T]) Attach(observer Observer[T]) *Subscription[T] {
	subscription := &Subscription[T]{
		channel:  c,
		observer: observer,
	}

	if observer == nil {
		subscription.detached = true
		return subscription
	}

	c.subscriptions = append(c.subscriptions, subscription)
	c.recordReplayed(len(c.history))

	c.drain()

	return subscription
}

// drain delivers pending events until every subscription's cursor reached the end of the history.
// Nested calls (from observers publishing or attaching) return immediately; the outermost call picks
// up their work, which keeps each observer's delivery in publication order.
func (c *Channel[T]) drain() {
	if c.draining {
		return
	}

	c.draining = true
	defer func() {
		c.draining = false
		c.compact()
	}()

	for progressed := true; progressed; {
		progressed = false

		for i := 0; i < len(c.subscriptions); i++ {
			subscription := c.subscriptions[i]

			for !subscription.detached && subscription.cursor < len(c.history) {
				event := c.history[subscription.cursor]
				subscription.cursor++
				c.deliver(subscription, event)
				progressed = true
			}
		}
	}
}

// deliver hands one event to one observer, isolating the Channel from observer panics.
func (c *Channel[T]) deliver(subscription *Subscription[T], event Event[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.reportObserverPanic(event, recovered)
		}
	}()

	subscription.observer.Observe(event)
}

// compact removes detached subscriptions.
func (c *Channel[T]) compact() {
	c.subscriptions = slices.DeleteFunc(c.subscriptions, func(subscription *Subscription[T]) bool {
		return subscription.detached
	})
}

// Detach stops the delivery of further events to the observer. It is safe to call it more than once,
// also from within the observer itself.
func (s *Subscription[T]) Detach() {
	if s.detached {
		return
	}

	s.detached = true

	if !s.channel.draining {
		s.channel.compact()
	}
}

// Delivered returns the number of events handed to the observer so far.
func (s *Subscription[T]) Delivered() int {
	return s.cursor
}

// Detached reports whether Detach was called (or the observer was nil).
func (s *Subscription[T]) Detached() bool {
	return s.detached
}
