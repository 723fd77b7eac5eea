package observedseq

import (
	"errors"
)

var ErrInvalidWiring = errors.New("wiring must be a non-nil function")
var ErrNegativeIndex = errors.New("index must not be negative")
var ErrNilLogger = errors.New("nil logger supplied")
var ErrNilMetricsCollector = errors.New("nil metrics collector supplied")
var ErrNilClock = errors.New("nil clock supplied")
var ErrObserverPanicked = errors.New("observer panicked while handling an event")

// PositionUint is a type alias for uint, representing the 1-based position of an Event in the history of its Channel.
type PositionUint = uint
