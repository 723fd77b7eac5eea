package observedseq

// Get returns the element at index; ok is false if index is out of range.
//
// Reads with a non-negative index publish KindAccessed "index" with the argument [index], also when
// the index is beyond the end. A negative index is not an element index: it returns the zero value
// and publishes nothing.
func (s *Sequence[T]) Get(index int) (value T, ok bool) {
	if index < 0 {
		return value, false
	}

	if index < len(s.items) {
		value, ok = s.items[index], true
	}

	s.publish(KindAccessed, OpIndex, []any{index}, s.items)

	return value, ok
}

// Set writes value at index. Writing beyond the end grows the sequence; the gap is filled with zero values.
//
// Publishes KindModified "index" with the arguments [index, value].
// Returns ErrNegativeIndex, without publishing, for a negative index.
func (s *Sequence[T]) Set(index int, value T) error {
	if index < 0 {
		return ErrNegativeIndex
	}

	if index >= len(s.items) {
		s.items = append(s.items, make([]T, index-len(s.items)+1)...)
	}

	s.items[index] = value
	s.publish(KindModified, OpIndex, []any{index, value}, s.items)

	return nil
}
