package prettyprint_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-sequence-go/internal/prettyprint"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	. "github.com/AntonStoeckl/observable-sequence-go/testutil/observability/testdoubles" //nolint:revive
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func Test_Printer_PrintsOneLinePerEvent(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	printer := prettyprint.NewPrinter(&buf, false)

	// act
	seq, err := observedseq.New(prettyprint.Wiring[int](printer), 1, 2)
	require.NoError(t, err)
	seq.Append(3, 4)

	// assert
	assert.Equal(t, []string{
		"Type: CREATED Method: constructor Args: [] Array: [1, 2]",
		"Type: MODIFIED Method: append Args: [3,4] Array: [1, 2, 3, 4]",
	}, lines(&buf))
}

func Test_Printer_PrintsTheDerivedSequencesToo(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	printer := prettyprint.NewPrinter(&buf, false)
	recorder := NewEventRecorder[int]()
	seq, err := observedseq.New(prettyprint.Wiring(printer, recorder.Wiring()), 4, 1, 4)
	require.NoError(t, err)

	// act
	seq.Filter(func(v int, _ int) bool { return v != 4 })

	// assert
	assert.Equal(t, []string{
		"Type: CREATED Method: constructor Args: [] Array: [4, 1, 4]",
		"Type: CREATED Method: constructor Args: [] Array: [1]",
		"Type: ACCESSED Method: filter Args: [] Array: [1]",
	}, lines(&buf))
	assert.Equal(t, 2, recorder.WiredChannels())
}

func Test_Printer_WithColor_StylesTheLabels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	printer := prettyprint.NewPrinter(&buf, true)

	// act
	_, err := observedseq.New(prettyprint.Wiring[string](printer), "a")

	// assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "CREATED")
}

func Test_Printer_FallsBackForArgumentsJSONCannotExpress(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	printer := prettyprint.NewPrinter(&buf, false)
	seq, err := observedseq.New(prettyprint.Wiring[any](printer))
	require.NoError(t, err)

	// act
	seq.Append(func() {})

	// assert
	assert.Contains(t, lines(&buf)[1], "Type: MODIFIED Method: append Args: [0x")
}

func Test_Printer_PrintStored(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	printer := prettyprint.NewPrinter(&buf, false)
	event, err := observedseq.BuildStorableEvent(
		uuid.NewString(), 7, "modified", observedseq.OpSplice, []byte(`[1,0,"x"]`), []byte(`["a","x","b"]`), time.Now(),
	)
	require.NoError(t, err)

	// act
	printer.PrintStored(event)

	// assert
	assert.Equal(t, `#7 Type: MODIFIED Method: splice Args: [1,0,"x"] Array: [a, x, b]`, strings.TrimSpace(buf.String()))
}
