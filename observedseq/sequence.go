package observedseq

import (
	"github.com/google/uuid"
)

// Wiring attaches observers to the Channel of a newly constructed Sequence.
// It runs exactly once per Sequence, synchronously, during construction, after the KindCreated event
// was published, so an observer attached here receives that event through replay.
// The same Wiring is reused for every sequence derived from the original one.
type Wiring[T any] func(channel *Channel[T])

// Sequence is an ordered, indexable collection that publishes an Event for every operation.
//
// While its elements can be read in bulk with Items (which is not reported), every element access
// that should be observable goes through Get and Set, and every structural change through the
// named methods.
type Sequence[T any] struct {
	id       uuid.UUID
	items    []T
	channel  *Channel[T]
	wiring   Wiring[T]
	settings settings
}

// New creates a Sequence holding a copy of items and wires its Channel with wiring.
//
// Returns ErrInvalidWiring, before any event is published, if wiring is nil.
func New[T any](wiring Wiring[T], items ...T) (*Sequence[T], error) {
	return NewWithOptions(wiring, items)
}

// NewWithOptions creates a Sequence like New, taking the initial elements as a slice and applying options.
// The options are handed down to every derived sequence.
//
// Returns ErrInvalidWiring or the error of a failing Option; no event is published in both cases.
func NewWithOptions[T any](wiring Wiring[T], items []T, options ...Option) (*Sequence[T], error) {
	elements := cloneNonNil(items)

	if wiring == nil {
		return nil, ErrInvalidWiring
	}

	s := defaultSettings()

	for _, option := range options {
		if err := option(&s); err != nil {
			return nil, err
		}
	}

	return construct(wiring, elements, s, nil), nil
}

// construct owns items, publishes the KindCreated event and then runs the wiring.
func construct[T any](wiring Wiring[T], items []T, s settings, parent *Sequence[T]) *Sequence[T] {
	id := newSequenceID()

	seq := &Sequence[T]{
		id:       id,
		items:    items,
		channel:  newChannel[T](id, s),
		wiring:   wiring,
		settings: s,
	}

	seq.logCreated(parent)
	seq.publish(KindCreated, OpConstructor, nil, seq.items)
	wiring(seq.channel)

	return seq
}

// derive builds a new Sequence over items with the same wiring and settings.
func (s *Sequence[T]) derive(items []T) *Sequence[T] {
	return construct(s.wiring, cloneNonNil(items), s.settings, s)
}

func (s *Sequence[T]) publish(kind Kind, operation string, arguments []any, snapshot []T) {
	s.channel.Publish(BuildEvent(kind, operation, arguments, snapshot, s.settings.clock()))
}

// ID returns the ID of the Sequence, which is stamped on every Event it publishes.
func (s *Sequence[T]) ID() uuid.UUID {
	return s.id
}

// Len returns the number of elements. It is not reported.
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the elements. It is not reported.
func (s *Sequence[T]) Items() []T {
	return cloneNonNil(s.items)
}

// Channel returns the Channel owned by the Sequence, e.g. to attach observers after construction.
func (s *Sequence[T]) Channel() *Channel[T] {
	return s.channel
}

func newSequenceID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// argsOf converts typed values into an Event's argument list.
func argsOf[T any](values []T) []any {
	args := make([]any, 0, len(values))
	for _, value := range values {
		args = append(args, value)
	}

	return args
}

// relativeIndex resolves a possibly negative index against length (counting from the end)
// and clamps the result into [0, length].
func relativeIndex(index, length int) int {
	if index < 0 {
		return max(index+length, 0)
	}

	return min(index, length)
}
