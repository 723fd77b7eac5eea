package observedseq

import (
	"slices"
)

// Append adds values to the end and returns the new length.
// Publishes KindModified "append" with the values as arguments.
func (s *Sequence[T]) Append(values ...T) int {
	s.items = append(s.items, values...)
	s.publish(KindModified, OpAppend, argsOf(values), s.items)

	return len(s.items)
}

// RemoveLast removes and returns the last element; ok is false if the sequence was empty.
// Publishes KindModified "removeLast" in both cases.
func (s *Sequence[T]) RemoveLast() (removed T, ok bool) {
	if n := len(s.items); n > 0 {
		removed, ok = s.items[n-1], true

		var zero T
		s.items[n-1] = zero
		s.items = s.items[:n-1]
	}

	s.publish(KindModified, OpRemoveLast, nil, s.items)

	return removed, ok
}

// RemoveFirst removes and returns the first element; ok is false if the sequence was empty.
// Publishes KindModified "removeFirst" in both cases.
func (s *Sequence[T]) RemoveFirst() (removed T, ok bool) {
	if len(s.items) > 0 {
		removed, ok = s.items[0], true
		s.items = slices.Delete(s.items, 0, 1)
	}

	s.publish(KindModified, OpRemoveFirst, nil, s.items)

	return removed, ok
}

// InsertFirst adds values to the front, keeping their order, and returns the new length.
// Publishes KindModified "insertFirst" with the values as arguments.
func (s *Sequence[T]) InsertFirst(values ...T) int {
	s.items = slices.Insert(s.items, 0, values...)
	s.publish(KindModified, OpInsertFirst, argsOf(values), s.items)

	return len(s.items)
}

// Splice removes deleteCount elements beginning at start and inserts the given elements in their place.
//
// A negative start counts from the end; start and deleteCount are clamped to the bounds of the sequence.
// Publishes KindModified "splice" with the arguments [start, deleteCount, inserted...] and returns the removed
// elements as a new Sequence built with the same wiring, which publishes its own KindCreated event afterward.
func (s *Sequence[T]) Splice(start, deleteCount int, inserted ...T) *Sequence[T] {
	from := relativeIndex(start, len(s.items))
	count := min(max(deleteCount, 0), len(s.items)-from)

	removed := slices.Clone(s.items[from : from+count])
	s.items = slices.Replace(s.items, from, from+count, inserted...)

	args := append([]any{start, deleteCount}, argsOf(inserted)...)
	s.publish(KindModified, OpSplice, args, s.items)

	return s.derive(removed)
}

// Sort sorts the elements in place, keeping the order of equal elements, and returns the same Sequence.
//
// compare returns a negative number when a < b, a positive number when a > b and zero otherwise.
// A nil compare orders the elements by their display form.
// Publishes KindModified "sort" without arguments.
func (s *Sequence[T]) Sort(compare func(a, b T) int) *Sequence[T] {
	if compare == nil {
		compare = compareDisplayForms[T]
	}

	slices.SortStableFunc(s.items, compare)
	s.publish(KindModified, OpSort, nil, s.items)

	return s
}

// Fill sets every element in [start, end) to value and returns the same Sequence.
// Negative bounds count from the end; bounds are clamped.
// Publishes KindModified "fill" with the arguments [value, start, end].
func (s *Sequence[T]) Fill(value T, start, end int) *Sequence[T] {
	from := relativeIndex(start, len(s.items))
	to := relativeIndex(end, len(s.items))

	for i := from; i < to; i++ {
		s.items[i] = value
	}

	s.publish(KindModified, OpFill, []any{value, start, end}, s.items)

	return s
}

// CopyWithin copies the elements in [start, end) to the position target, overwriting what is there,
// without changing the length, and returns the same Sequence.
// Negative indexes count from the end; indexes are clamped.
// Publishes KindModified "copyWithin" with the arguments [target, start, end].
func (s *Sequence[T]) CopyWithin(target, start, end int) *Sequence[T] {
	n := len(s.items)
	to := relativeIndex(target, n)
	from := relativeIndex(start, n)
	final := relativeIndex(end, n)

	if count := min(final-from, n-to); count > 0 {
		copy(s.items[to:to+count], s.items[from:from+count])
	}

	s.publish(KindModified, OpCopyWithin, []any{target, start, end}, s.items)

	return s
}

// Reverse reverses the elements in place and returns the same Sequence.
// Publishes KindModified "reverse" without arguments.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	slices.Reverse(s.items)
	s.publish(KindModified, OpReverse, nil, s.items)

	return s
}
