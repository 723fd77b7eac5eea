package observedseq

import (
	"slices"
)

// Slice returns the elements in [start, end) as a new Sequence built with the same wiring.
// Negative bounds count from the end; bounds are clamped. The source is not changed.
//
// Publishes KindAccessed "slice" with the arguments [start, end] on the source's Channel, carrying the
// elements of the result as snapshot.
func (s *Sequence[T]) Slice(start, end int) *Sequence[T] {
	from := relativeIndex(start, len(s.items))
	to := relativeIndex(end, len(s.items))

	var items []T
	if from < to {
		items = s.items[from:to]
	}

	result := s.derive(items)
	s.publish(KindAccessed, OpSlice, []any{start, end}, result.items)

	return result
}

// Concat returns a new Sequence, built with the same wiring, holding the elements followed by the elements
// of every other slice. The source is not changed.
//
// Publishes KindModified "concat", with the other slices as arguments, on the source's Channel, carrying the
// elements of the result as snapshot. Concat is reported as a modification although the source is not changed.
func (s *Sequence[T]) Concat(others ...[]T) *Sequence[T] {
	items := slices.Clone(s.items)
	args := make([]any, 0, len(others))

	for _, other := range others {
		items = append(items, other...)
		args = append(args, cloneNonNil(other))
	}

	result := s.derive(items)
	s.publish(KindModified, OpConcat, args, result.items)

	return result
}

// Map returns a new Sequence, built with the same wiring, holding transform applied to every element.
//
// Publishes KindAccessed "map" without arguments on the source's Channel, carrying the elements of the
// result as snapshot. A panic in transform propagates and nothing is published.
func (s *Sequence[T]) Map(transform func(value T, index int) T) *Sequence[T] {
	items := make([]T, 0, len(s.items))
	for i, value := range s.items {
		items = append(items, transform(value, i))
	}

	result := s.derive(items)
	s.publish(KindAccessed, OpMap, nil, result.items)

	return result
}

// Filter returns a new Sequence, built with the same wiring, holding the elements predicate accepts.
//
// Publishes KindAccessed "filter" without arguments on the source's Channel, carrying the elements of the
// result as snapshot. A panic in predicate propagates and nothing is published.
func (s *Sequence[T]) Filter(predicate func(value T, index int) bool) *Sequence[T] {
	items := make([]T, 0)
	for i, value := range s.items {
		if predicate(value, i) {
			items = append(items, value)
		}
	}

	result := s.derive(items)
	s.publish(KindAccessed, OpFilter, nil, result.items)

	return result
}

// Flat returns a new Sequence, built with the same wiring, in which elements that are themselves a []T or
// a *Sequence[T] are replaced by their elements, recursively up to depth levels. This is only meaningful for
// interface element types like any. A depth below 1 copies the elements.
//
// Publishes KindAccessed "flat" with the argument [depth] on the source's Channel, carrying the elements of
// the result as snapshot.
func (s *Sequence[T]) Flat(depth int) *Sequence[T] {
	result := s.derive(flatten(make([]T, 0, len(s.items)), s.items, depth))
	s.publish(KindAccessed, OpFlat, []any{depth}, result.items)

	return result
}

// FlatMap returns a new Sequence, built with the same wiring, holding the concatenation of transform's
// results for every element.
//
// Publishes KindAccessed "flatMap" without arguments on the source's Channel, carrying the elements of the
// result as snapshot. A panic in transform propagates and nothing is published.
func (s *Sequence[T]) FlatMap(transform func(value T, index int) []T) *Sequence[T] {
	items := make([]T, 0, len(s.items))
	for i, value := range s.items {
		items = append(items, transform(value, i)...)
	}

	result := s.derive(items)
	s.publish(KindAccessed, OpFlatMap, nil, result.items)

	return result
}

func flatten[T any](dst []T, items []T, depth int) []T {
	for _, item := range items {
		if depth > 0 {
			switch nested := any(item).(type) {
			case []T:
				dst = flatten(dst, nested, depth-1)
				continue
			case *Sequence[T]:
				if nested != nil {
					dst = flatten(dst, nested.items, depth-1)
					continue
				}
			}
		}

		dst = append(dst, item)
	}

	return dst
}
