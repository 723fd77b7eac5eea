package observedseq_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	. "github.com/AntonStoeckl/observable-sequence-go/testutil/observability/testdoubles" //nolint:revive
)

func assertLastEvent[T any](
	t *testing.T,
	recorder *EventRecorder[T],
	kind observedseq.Kind,
	operation string,
	arguments []any,
	snapshot []T,
) {
	t.Helper()

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, kind, last.Kind())
	assert.Equal(t, operation, last.Operation())
	assert.Equal(t, arguments, last.Arguments())
	assert.Equal(t, snapshot, last.Snapshot())
}

func Test_Append(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1, 2)

	// act
	length := seq.Append(3, 4)

	// assert
	assert.Equal(t, 4, length)
	assert.Equal(t, []int{1, 2, 3, 4}, seq.Items())
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpAppend, []any{3, 4}, []int{1, 2, 3, 4})
}

func Test_RemoveLast(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1, 2)

	// act
	removed, ok := seq.RemoveLast()

	// assert
	assert.True(t, ok)
	assert.Equal(t, 2, removed)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpRemoveLast, []any{}, []int{1})
}

func Test_RemoveLast_OnEmptySequence_StillPublishes(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder)

	// act
	removed, ok := seq.RemoveLast()

	// assert
	assert.False(t, ok)
	assert.Zero(t, removed)
	assert.Equal(t, 2, recorder.Len())
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpRemoveLast, []any{}, []int{})
}

func Test_RemoveFirst(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[string]()
	seq := givenSequence(t, recorder, "a", "b", "c")

	// act
	removed, ok := seq.RemoveFirst()

	// assert
	assert.True(t, ok)
	assert.Equal(t, "a", removed)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpRemoveFirst, []any{}, []string{"b", "c"})
}

func Test_RemoveFirst_OnEmptySequence_StillPublishes(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[string]()
	seq := givenSequence(t, recorder)

	// act
	_, ok := seq.RemoveFirst()

	// assert
	assert.False(t, ok)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpRemoveFirst, []any{}, []string{})
}

func Test_InsertFirst(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 3)

	// act
	length := seq.InsertFirst(1, 2)

	// assert
	assert.Equal(t, 3, length)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpInsertFirst, []any{1, 2}, []int{1, 2, 3})
}

func Test_Splice_ReturnsRemovedSegmentAsObservableSequence(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1, 2, 3, 4)

	// act
	removed := seq.Splice(1, 2, 5, 6)

	// assert
	assert.Equal(t, []int{1, 5, 6, 4}, seq.Items())
	assert.Equal(t, []int{2, 3}, removed.Items())

	events := recorder.Events()
	require.Len(t, events, 3)

	splice := events[1]
	assert.Equal(t, seq.ID(), splice.SequenceID())
	assert.Equal(t, observedseq.KindModified, splice.Kind())
	assert.Equal(t, observedseq.OpSplice, splice.Operation())
	assert.Equal(t, []any{1, 2, 5, 6}, splice.Arguments())
	assert.Equal(t, []int{1, 5, 6, 4}, splice.Snapshot())

	created := events[2]
	assert.Equal(t, removed.ID(), created.SequenceID())
	assert.Equal(t, observedseq.KindCreated, created.Kind())
	assert.Equal(t, []int{2, 3}, created.Snapshot())
}

func Test_Splice_ClampsBounds(t *testing.T) {
	testCases := []struct {
		name            string
		start           int
		deleteCount     int
		expectedItems   []int
		expectedRemoved []int
	}{
		{name: "negative start counts from the end", start: -2, deleteCount: 1, expectedItems: []int{1, 2, 4}, expectedRemoved: []int{3}},
		{name: "start before the beginning", start: -10, deleteCount: 1, expectedItems: []int{2, 3, 4}, expectedRemoved: []int{1}},
		{name: "start beyond the end", start: 10, deleteCount: 2, expectedItems: []int{1, 2, 3, 4}, expectedRemoved: []int{}},
		{name: "delete count beyond the end", start: 2, deleteCount: 10, expectedItems: []int{1, 2}, expectedRemoved: []int{3, 4}},
		{name: "negative delete count", start: 1, deleteCount: -1, expectedItems: []int{1, 2, 3, 4}, expectedRemoved: []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			recorder := NewEventRecorder[int]()
			seq := givenSequence(t, recorder, 1, 2, 3, 4)

			// act
			removed := seq.Splice(tc.start, tc.deleteCount)

			// assert
			assert.Equal(t, tc.expectedItems, seq.Items())
			assert.Equal(t, tc.expectedRemoved, removed.Items())
		})
	}
}

func Test_Sort_ReturnsTheSameSequence(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 3, 1, 2)

	// act
	sorted := seq.Sort(func(a, b int) int { return a - b })

	// assert
	assert.Same(t, seq, sorted)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpSort, []any{}, []int{1, 2, 3})
}

func Test_Sort_WithoutCompare_OrdersByDisplayForm(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 10, 9, 1, 100)

	// act
	seq.Sort(nil)

	// assert
	assert.Equal(t, []int{1, 10, 100, 9}, seq.Items())
}

func Test_Sort_IsStable(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[string]()
	seq := givenSequence(t, recorder, "bb", "a", "cc", "b")

	// act
	seq.Sort(func(a, b string) int { return len(a) - len(b) })

	// assert
	assert.Equal(t, []string{"a", "b", "bb", "cc"}, seq.Items())
}

func Test_Fill(t *testing.T) {
	testCases := []struct {
		name     string
		start    int
		end      int
		expected []int
	}{
		{name: "range", start: 1, end: 3, expected: []int{1, 0, 0, 4}},
		{name: "negative bounds", start: -3, end: -1, expected: []int{1, 0, 0, 4}},
		{name: "end beyond the length", start: 2, end: 10, expected: []int{1, 2, 0, 0}},
		{name: "empty range", start: 3, end: 1, expected: []int{1, 2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			recorder := NewEventRecorder[int]()
			seq := givenSequence(t, recorder, 1, 2, 3, 4)

			// act
			result := seq.Fill(0, tc.start, tc.end)

			// assert
			assert.Same(t, seq, result)
			assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpFill, []any{0, tc.start, tc.end}, tc.expected)
		})
	}
}

func Test_CopyWithin(t *testing.T) {
	testCases := []struct {
		name     string
		target   int
		start    int
		end      int
		expected []int
	}{
		{name: "copy to the front", target: 0, start: 3, end: 5, expected: []int{4, 5, 3, 4, 5}},
		{name: "overlapping forward", target: 1, start: 0, end: 3, expected: []int{1, 1, 2, 3, 5}},
		{name: "truncated at the end", target: 3, start: 0, end: 5, expected: []int{1, 2, 3, 1, 2}},
		{name: "negative indexes", target: -2, start: 0, end: 2, expected: []int{1, 2, 3, 1, 2}},
		{name: "empty source range", target: 0, start: 4, end: 2, expected: []int{1, 2, 3, 4, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			recorder := NewEventRecorder[int]()
			seq := givenSequence(t, recorder, 1, 2, 3, 4, 5)

			// act
			result := seq.CopyWithin(tc.target, tc.start, tc.end)

			// assert
			assert.Same(t, seq, result)
			assertLastEvent(
				t, recorder, observedseq.KindModified, observedseq.OpCopyWithin,
				[]any{tc.target, tc.start, tc.end}, tc.expected,
			)
		})
	}
}

func Test_Reverse_MutatesAndReturnsTheSameSequence(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1, 2, 3)

	// act
	reversed := seq.Reverse()

	// assert
	assert.Same(t, seq, reversed)
	assert.Equal(t, []int{3, 2, 1}, seq.Items())
	assert.Equal(t, 1, recorder.WiredChannels(), "no new sequence is constructed")
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpReverse, []any{}, []int{3, 2, 1})
}

func Test_Snapshots_AreNotAffectedByLaterMutations(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[string]()
	seq := givenSequence(t, recorder, "a")

	// act
	seq.Append("b")
	seq.Fill("x", 0, 2)
	seq.Append(strings.Repeat("c", 2))

	// assert
	events := recorder.Events()
	require.Len(t, events, 4)
	assert.Equal(t, []string{"a"}, events[0].Snapshot())
	assert.Equal(t, []string{"a", "b"}, events[1].Snapshot())
	assert.Equal(t, []string{"x", "x"}, events[2].Snapshot())
	assert.Equal(t, []string{"x", "x", "cc"}, events[3].Snapshot())
}
