package observedseq

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownKind = errors.New("unknown event kind")

// Kind classifies an Event as the construction of a sequence, a read, or a write.
type Kind int

const (
	KindCreated Kind = iota
	KindAccessed
	KindModified
)

const (
	kindCreatedString  = "created"
	kindAccessedString = "accessed"
	kindModifiedString = "modified"
)

// String provides the string representation of Kind for logging, printing and storage.
func (k Kind) String() string {
	switch k {
	case KindCreated:
		return kindCreatedString
	case KindAccessed:
		return kindAccessedString
	case KindModified:
		return kindModifiedString
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(kind string) (Kind, error) {
	switch kind {
	case kindCreatedString:
		return KindCreated, nil
	case kindAccessedString:
		return KindAccessed, nil
	case kindModifiedString:
		return KindModified, nil
	default:
		return 0, ErrUnknownKind
	}
}

// Names of the operations reported in Event.Operation.
const (
	OpConstructor    = "constructor"
	OpIndex          = "index"
	OpAppend         = "append"
	OpRemoveLast     = "removeLast"
	OpRemoveFirst    = "removeFirst"
	OpInsertFirst    = "insertFirst"
	OpSplice         = "splice"
	OpSort           = "sort"
	OpFill           = "fill"
	OpCopyWithin     = "copyWithin"
	OpReverse        = "reverse"
	OpSlice          = "slice"
	OpConcat         = "concat"
	OpMap            = "map"
	OpFilter         = "filter"
	OpFlat           = "flat"
	OpFlatMap        = "flatMap"
	OpForEach        = "forEach"
	OpReduce         = "reduce"
	OpReduceRight    = "reduceRight"
	OpFind           = "find"
	OpFindIndex      = "findIndex"
	OpIndexOf        = "indexOf"
	OpLastIndexOf    = "lastIndexOf"
	OpIncludes       = "includes"
	OpEvery          = "every"
	OpSome           = "some"
	OpJoin           = "join"
	OpToString       = "toString"
	OpToLocaleString = "toLocaleString"
)

// Events is an alias type for a slice of Event.
type Events[T any] = []Event[T]

// Event is the immutable record published for every observed operation of a Sequence.
//
// It describes which operation ran, with which (non-callback) arguments, and the elements at the
// moment it was published. For derived-collection operations the snapshot holds the elements of
// the derived result, for every other operation the elements of the acted-upon sequence.
//
// Event should only be constructed with BuildEvent. The Channel stamps the sequence ID and
// the position when the event is published.
type Event[T any] struct {
	sequenceID uuid.UUID
	position   PositionUint
	kind       Kind
	operation  string
	arguments  []any
	snapshot   []T
	occurredAt time.Time
}

// BuildEvent is a factory method for Event.
//
// arguments and snapshot are copied, so later changes to the supplied slices are not visible through the Event.
func BuildEvent[T any](kind Kind, operation string, arguments []any, snapshot []T, occurredAt time.Time) Event[T] {
	return Event[T]{
		kind:       kind,
		operation:  operation,
		arguments:  cloneNonNil(arguments),
		snapshot:   cloneNonNil(snapshot),
		occurredAt: occurredAt,
	}
}

// SequenceID returns the ID of the Sequence (and Channel) that published the Event.
func (e Event[T]) SequenceID() uuid.UUID {
	return e.sequenceID
}

// Position returns the 1-based position of the Event in the history of its Channel.
func (e Event[T]) Position() PositionUint {
	return e.position
}

func (e Event[T]) Kind() Kind {
	return e.kind
}

func (e Event[T]) Operation() string {
	return e.operation
}

// Arguments returns a copy of the operation's input arguments.
func (e Event[T]) Arguments() []any {
	return cloneNonNil(e.arguments)
}

// Snapshot returns a copy of the elements at the moment the Event was published.
func (e Event[T]) Snapshot() []T {
	return cloneNonNil(e.snapshot)
}

func (e Event[T]) OccurredAt() time.Time {
	return e.occurredAt
}

// stamped returns a copy of the Event carrying the publishing channel's identity.
func (e Event[T]) stamped(sequenceID uuid.UUID, position PositionUint) Event[T] {
	e.sequenceID = sequenceID
	e.position = position

	return e
}

// cloneNonNil copies s and never returns nil, so empty arguments and snapshots compare and encode as empty lists.
func cloneNonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}

	return slices.Clone(s)
}
