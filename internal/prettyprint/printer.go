// Package prettyprint renders sequence events as colored one-line summaries, e.g.
//
//	Type: MODIFIED Method: append Args: [3,4] Array: [1, 2, 3, 4]
package prettyprint

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/muesli/termenv"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

// Printer writes one line per event. It is safe for concurrent use.
type Printer struct {
	mu        sync.Mutex
	out       io.Writer
	label     lipgloss.Style
	kind      lipgloss.Style
	operation lipgloss.Style
	position  lipgloss.Style
}

// NewPrinter creates a Printer writing to out. Without color, the output is plain text.
func NewPrinter(out io.Writer, color bool) *Printer {
	renderer := lipgloss.NewRenderer(out)
	if color {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:       out,
		label:     renderer.NewStyle().Foreground(lipgloss.Color("6")),
		kind:      renderer.NewStyle().Foreground(lipgloss.Color("3")),
		operation: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		position:  renderer.NewStyle().Faint(true),
	}
}

// Observer returns an observer printing every event it receives.
func Observer[T any](p *Printer) observedseq.Observer[T] {
	return observedseq.ObserverFunc[T](func(event observedseq.Event[T]) {
		elements := make([]string, 0, len(event.Snapshot()))
		for _, element := range event.Snapshot() {
			elements = append(elements, fmt.Sprint(element))
		}

		p.printLine("", event.Kind().String(), event.Operation(), encodeArguments(event.Arguments()), elements)
	})
}

// Wiring returns a Wiring attaching a printing observer to every channel, followed by the next wirings.
func Wiring[T any](p *Printer, next ...observedseq.Wiring[T]) observedseq.Wiring[T] {
	return func(channel *observedseq.Channel[T]) {
		channel.Attach(Observer[T](p))

		for _, wiring := range next {
			if wiring != nil {
				wiring(channel)
			}
		}
	}
}

// PrintStored prints an event loaded from storage, prefixed with its position.
func (p *Printer) PrintStored(event observedseq.StorableEvent) {
	var snapshot []any
	elements := make([]string, 0)

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(event.SnapshotJSON, &snapshot); err == nil {
		for _, element := range snapshot {
			elements = append(elements, fmt.Sprint(element))
		}
	}

	p.printLine(fmt.Sprintf("#%d", event.Position), event.Kind, event.Operation, string(event.ArgumentsJSON), elements)
}

func (p *Printer) printLine(prefix, kind, operation, arguments string, elements []string) {
	var line strings.Builder

	if prefix != "" {
		line.WriteString(p.position.Render(prefix))
		line.WriteString(" ")
	}

	line.WriteString(p.label.Render("Type:") + " " + p.kind.Render(strings.ToUpper(kind)) + " ")
	line.WriteString(p.label.Render("Method:") + " " + p.operation.Render(operation) + " ")
	line.WriteString(p.label.Render("Args:") + " " + arguments + " ")
	line.WriteString(p.label.Render("Array:") + " [" + strings.Join(elements, ", ") + "]\n")

	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = io.WriteString(p.out, line.String())
}

// encodeArguments renders the arguments as JSON, falling back to Go syntax for values JSON can't express.
func encodeArguments(arguments []any) string {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(arguments)
	if err != nil {
		return fmt.Sprintf("%v", arguments)
	}

	return string(encoded)
}
