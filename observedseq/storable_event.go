package observedseq

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrEmptySequenceID = errors.New("sequence id must not be empty")
var ErrEmptyOperation = errors.New("operation must not be empty")
var ErrInvalidArgumentsJSON = errors.New("arguments json is not valid")
var ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")
var ErrEncodingEventFailed = errors.New("encoding event failed")

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) used to persist published events and to query them back.
//
// It is built on scalars to be completely agnostic of the element type of the Sequence that published it.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - StorableEventFrom
type StorableEvent struct {
	SequenceID    string
	Position      PositionUint
	Kind          string
	Operation     string
	ArgumentsJSON []byte
	SnapshotJSON  []byte
	OccurredAt    time.Time
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// It populates the StorableEvent with the given scalar input.
// Returns an error if sequenceID or operation are empty, kind is unknown,
// or argumentsJSON or snapshotJSON are not valid JSON.
func BuildStorableEvent(
	sequenceID string,
	position PositionUint,
	kind string,
	operation string,
	argumentsJSON []byte,
	snapshotJSON []byte,
	occurredAt time.Time,
) (StorableEvent, error) {
	if sequenceID == "" {
		return StorableEvent{}, ErrEmptySequenceID
	}

	if operation == "" {
		return StorableEvent{}, ErrEmptyOperation
	}

	if _, err := ParseKind(kind); err != nil {
		return StorableEvent{}, err
	}

	if !jsoniter.ConfigFastest.Valid(argumentsJSON) {
		return StorableEvent{}, ErrInvalidArgumentsJSON
	}

	if !jsoniter.ConfigFastest.Valid(snapshotJSON) {
		return StorableEvent{}, ErrInvalidSnapshotJSON
	}

	return StorableEvent{
		SequenceID:    sequenceID,
		Position:      position,
		Kind:          kind,
		Operation:     operation,
		ArgumentsJSON: argumentsJSON,
		SnapshotJSON:  snapshotJSON,
		OccurredAt:    occurredAt,
	}, nil
}

// StorableEventFrom encodes a published Event into a StorableEvent.
// Arguments and snapshot are encoded as JSON arrays.
func StorableEventFrom[T any](event Event[T]) (StorableEvent, error) {
	argumentsJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event.arguments)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrEncodingEventFailed, err)
	}

	snapshotJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event.snapshot)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrEncodingEventFailed, err)
	}

	return BuildStorableEvent(
		event.sequenceID.String(),
		event.position,
		event.kind.String(),
		event.operation,
		argumentsJSON,
		snapshotJSON,
		event.occurredAt,
	)
}
