package observedseq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	. "github.com/AntonStoeckl/observable-sequence-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_Get_PublishesAccessedEvent(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1, 2, 3)

	// act
	value, ok := seq.Get(1)

	// assert
	assert.True(t, ok)
	assert.Equal(t, 2, value)
	assertLastEvent(t, recorder, observedseq.KindAccessed, observedseq.OpIndex, []any{1}, []int{1, 2, 3})
}

func Test_Get_BeyondTheEnd_PublishesButFindsNothing(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1)

	// act
	value, ok := seq.Get(5)

	// assert
	assert.False(t, ok)
	assert.Zero(t, value)
	assertLastEvent(t, recorder, observedseq.KindAccessed, observedseq.OpIndex, []any{5}, []int{1})
}

func Test_Get_WithNegativeIndex_PublishesNothing(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1)

	// act
	value, ok := seq.Get(-1)

	// assert
	assert.False(t, ok)
	assert.Zero(t, value)
	assert.Equal(t, 1, recorder.Len())
}

func Test_Set_PublishesModifiedEvent(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[string]()
	seq := givenSequence(t, recorder, "a", "b")

	// act
	err := seq.Set(0, "z")

	// assert
	assert.NoError(t, err)
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpIndex, []any{0, "z"}, []string{"z", "b"})
}

func Test_Set_BeyondTheEnd_GrowsWithZeroValues(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1)

	// act
	err := seq.Set(3, 4)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 4, seq.Len())
	assertLastEvent(t, recorder, observedseq.KindModified, observedseq.OpIndex, []any{3, 4}, []int{1, 0, 0, 4})
}

func Test_Set_ShouldFail_WithNegativeIndex(t *testing.T) {
	// arrange
	recorder := NewEventRecorder[int]()
	seq := givenSequence(t, recorder, 1)

	// act
	err := seq.Set(-1, 4)

	// assert
	assert.ErrorIs(t, err, observedseq.ErrNegativeIndex)
	assert.Equal(t, []int{1}, seq.Items())
	assert.Equal(t, 1, recorder.Len())
}
