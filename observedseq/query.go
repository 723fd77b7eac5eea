package observedseq

// ForEach calls fn for every element.
// Publishes KindAccessed "forEach" without arguments.
func (s *Sequence[T]) ForEach(fn func(value T, index int)) {
	for i, value := range s.items {
		fn(value, i)
	}

	s.publish(KindAccessed, OpForEach, nil, s.items)
}

// Reduce folds the elements from first to last, starting with initial.
// Publishes KindAccessed "reduce" with the argument [initial].
func (s *Sequence[T]) Reduce(reducer func(accumulator T, value T, index int) T, initial T) T {
	return ReduceTo(s, reducer, initial)
}

// ReduceRight folds the elements from last to first, starting with initial.
// Publishes KindAccessed "reduceRight" with the argument [initial].
func (s *Sequence[T]) ReduceRight(reducer func(accumulator T, value T, index int) T, initial T) T {
	return ReduceRightTo(s, reducer, initial)
}

// ReduceTo is Sequence.Reduce for an accumulator of a different type than the elements.
func ReduceTo[T, U any](s *Sequence[T], reducer func(accumulator U, value T, index int) U, initial U) U {
	accumulator := initial
	for i, value := range s.items {
		accumulator = reducer(accumulator, value, i)
	}

	s.publish(KindAccessed, OpReduce, []any{initial}, s.items)

	return accumulator
}

// ReduceRightTo is Sequence.ReduceRight for an accumulator of a different type than the elements.
func ReduceRightTo[T, U any](s *Sequence[T], reducer func(accumulator U, value T, index int) U, initial U) U {
	accumulator := initial
	for i := len(s.items) - 1; i >= 0; i-- {
		accumulator = reducer(accumulator, s.items[i], i)
	}

	s.publish(KindAccessed, OpReduceRight, []any{initial}, s.items)

	return accumulator
}

// Find returns the first element predicate accepts; ok is false if there is none.
// Publishes KindAccessed "find" without arguments.
func (s *Sequence[T]) Find(predicate func(value T, index int) bool) (found T, ok bool) {
	if i := s.findIndex(predicate); i >= 0 {
		found, ok = s.items[i], true
	}

	s.publish(KindAccessed, OpFind, nil, s.items)

	return found, ok
}

// FindIndex returns the index of the first element predicate accepts, or -1.
// Publishes KindAccessed "findIndex" without arguments.
func (s *Sequence[T]) FindIndex(predicate func(value T, index int) bool) int {
	result := s.findIndex(predicate)
	s.publish(KindAccessed, OpFindIndex, nil, s.items)

	return result
}

// Every reports whether predicate accepts all elements (true for an empty sequence).
// Publishes KindAccessed "every" without arguments.
func (s *Sequence[T]) Every(predicate func(value T, index int) bool) bool {
	result := s.findIndex(func(value T, index int) bool { return !predicate(value, index) }) < 0
	s.publish(KindAccessed, OpEvery, nil, s.items)

	return result
}

// Some reports whether predicate accepts at least one element.
// Publishes KindAccessed "some" without arguments.
func (s *Sequence[T]) Some(predicate func(value T, index int) bool) bool {
	result := s.findIndex(predicate) >= 0
	s.publish(KindAccessed, OpSome, nil, s.items)

	return result
}

func (s *Sequence[T]) findIndex(predicate func(value T, index int) bool) int {
	for i, value := range s.items {
		if predicate(value, i) {
			return i
		}
	}

	return -1
}

// IndexOf returns the first index at or after fromIndex holding value, or -1.
// A negative fromIndex counts from the end.
// Publishes KindAccessed "indexOf" with the arguments [value, fromIndex].
func IndexOf[T comparable](s *Sequence[T], value T, fromIndex int) int {
	result := -1

	for i := relativeIndex(fromIndex, len(s.items)); i < len(s.items); i++ {
		if s.items[i] == value {
			result = i
			break
		}
	}

	s.publish(KindAccessed, OpIndexOf, []any{value, fromIndex}, s.items)

	return result
}

// LastIndexOf returns the last index at or before fromIndex holding value, or -1.
// A negative fromIndex counts from the end; pass Len()-1 to search the whole sequence.
// Publishes KindAccessed "lastIndexOf" with the arguments [value, fromIndex].
func LastIndexOf[T comparable](s *Sequence[T], value T, fromIndex int) int {
	result := -1

	last := min(fromIndex, len(s.items)-1)
	if fromIndex < 0 {
		last = len(s.items) + fromIndex
	}

	for i := last; i >= 0; i-- {
		if s.items[i] == value {
			result = i
			break
		}
	}

	s.publish(KindAccessed, OpLastIndexOf, []any{value, fromIndex}, s.items)

	return result
}

// Includes reports whether value is held at or after fromIndex. Unlike IndexOf, a NaN value matches NaN elements.
// A negative fromIndex counts from the end.
// Publishes KindAccessed "includes" with the arguments [value, fromIndex].
func Includes[T comparable](s *Sequence[T], value T, fromIndex int) bool {
	result := false

	for i := relativeIndex(fromIndex, len(s.items)); i < len(s.items); i++ {
		if sameValueZero(s.items[i], value) {
			result = true
			break
		}
	}

	s.publish(KindAccessed, OpIncludes, []any{value, fromIndex}, s.items)

	return result
}

// sameValueZero is == except that NaN equals NaN; x != x only holds for NaN.
func sameValueZero[T comparable](a, b T) bool {
	return a == b || (a != a && b != b) //nolint:staticcheck // NaN check
}
