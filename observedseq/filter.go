package observedseq

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

/***** Filter *****/

// Filter holds the criteria to query StorableEvents. Empty criteria match everything:
//   - (sequenceID OR sequenceID...)
//   - AND (kind OR kind...)
//   - AND (operation OR operation...)
//   - AND occurredFrom <= occurredAt <= occurredUntil
type Filter struct {
	sequenceIDs   []string
	kinds         []string
	operations    []string
	occurredFrom  time.Time
	occurredUntil time.Time
}

func (f Filter) SequenceIDs() []string {
	return f.sequenceIDs
}

func (f Filter) Kinds() []string {
	return f.kinds
}

func (f Filter) Operations() []string {
	return f.operations
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// Matches evaluates the Filter in memory, with the same semantics a storage engine applies.
func (f Filter) Matches(event StorableEvent) bool {
	if len(f.sequenceIDs) > 0 && !slices.Contains(f.sequenceIDs, event.SequenceID) {
		return false
	}

	if len(f.kinds) > 0 && !slices.Contains(f.kinds, event.Kind) {
		return false
	}

	if len(f.operations) > 0 && !slices.Contains(f.operations, event.Operation) {
		return false
	}

	if !f.occurredFrom.IsZero() && event.OccurredAt.Before(f.occurredFrom) {
		return false
	}

	if !f.occurredUntil.IsZero() && event.OccurredAt.After(f.occurredUntil) {
		return false
	}

	return true
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter to be used in storage-specific implementations to build queries for
// the specific query language.
//
// Every method sanitizes its input:
//   - removing empty values ("" and uuid.Nil)
//   - sorting the values
//   - removing duplicate values
type FilterBuilder struct {
	filter Filter
}

// BuildFilter starts a new FilterBuilder.
func BuildFilter() *FilterBuilder {
	return &FilterBuilder{}
}

// ForSequences restricts the Filter to events published by one of the given sequences.
func (fb *FilterBuilder) ForSequences(sequenceIDs ...uuid.UUID) *FilterBuilder {
	for _, sequenceID := range sequenceIDs {
		if sequenceID != uuid.Nil {
			fb.filter.sequenceIDs = append(fb.filter.sequenceIDs, sequenceID.String())
		}
	}

	fb.filter.sequenceIDs = sanitize(fb.filter.sequenceIDs)

	return fb
}

// OfKinds restricts the Filter to events of one of the given kinds.
func (fb *FilterBuilder) OfKinds(kinds ...Kind) *FilterBuilder {
	for _, kind := range kinds {
		fb.filter.kinds = append(fb.filter.kinds, kind.String())
	}

	fb.filter.kinds = sanitize(fb.filter.kinds)

	return fb
}

// WithOperations restricts the Filter to events of one of the given operations.
func (fb *FilterBuilder) WithOperations(operations ...string) *FilterBuilder {
	fb.filter.operations = sanitize(append(fb.filter.operations, operations...))

	return fb
}

// OccurredFrom restricts the Filter to events that occurred at or after from.
func (fb *FilterBuilder) OccurredFrom(from time.Time) *FilterBuilder {
	fb.filter.occurredFrom = from

	return fb
}

// OccurredUntil restricts the Filter to events that occurred at or before until.
func (fb *FilterBuilder) OccurredUntil(until time.Time) *FilterBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// Finalize returns the built Filter.
func (fb *FilterBuilder) Finalize() Filter {
	return Filter{
		sequenceIDs:   slices.Clone(fb.filter.sequenceIDs),
		kinds:         slices.Clone(fb.filter.kinds),
		operations:    slices.Clone(fb.filter.operations),
		occurredFrom:  fb.filter.occurredFrom,
		occurredUntil: fb.filter.occurredUntil,
	}
}

func sanitize(values []string) []string {
	values = slices.DeleteFunc(values, func(value string) bool { return value == "" })
	slices.Sort(values)

	return slices.Compact(values)
}
