package main

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/observable-sequence-go/internal/prettyprint"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink"
)

var defaultItems = []string{"1", "2", "3", "4", "5", "4", "4", "4", "6", "7", "8", "9", "10"}

func newRunCommand(a *app) *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "run [items...]",
		Short: "Run operations on an observed sequence and print every event",
		Long: `run builds an observed sequence from the given items (JSON values, anything else is taken as a string),
removes every occurrence of --remove and then runs a short tour of mutations and queries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = defaultItems
			}

			var next []observedseq.Wiring[any]

			if a.cfg.Postgres.Enabled() {
				conn, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				defer conn.Close()

				next = append(next, postgressink.Wiring[any](conn.Sink))
			}

			wiring := prettyprint.Wiring(prettyprint.NewPrinter(a.out, a.cfg.Color), next...)

			seq, err := observedseq.NewWithOptions(wiring, parseItems(args), a.sequenceOptions()...)
			if err != nil {
				return err
			}

			result := tour(removeAll(seq, parseItem(remove)))

			a.logger.Info("sequence tour finished", "sequence_id", seq.ID().String(), "result", result.ToDisplayString())

			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "remove", "4", "value to remove from the sequence (JSON, or a string)")

	return cmd
}

// removeAll returns a derived sequence without any element equal to value.
func removeAll(seq *observedseq.Sequence[any], value any) *observedseq.Sequence[any] {
	return seq.Filter(func(v any, _ int) bool {
		return !reflect.DeepEqual(v, value)
	})
}

func tour(seq *observedseq.Sequence[any]) *observedseq.Sequence[any] {
	seq.Append("a", "b")
	seq.InsertFirst(0)
	seq.RemoveLast()

	if first, ok := seq.Get(0); ok {
		_ = seq.Set(seq.Len()-1, first)
	}

	seq.Splice(1, 1, "x")
	seq.Sort(nil).Reverse()
	seq.Join("-")

	return seq.Slice(0, -1)
}

func parseItems(args []string) []any {
	items := make([]any, 0, len(args))
	for _, arg := range args {
		items = append(items, parseItem(arg))
	}

	return items
}

func parseItem(arg string) any {
	var value any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(arg, &value); err != nil {
		return arg
	}

	return value
}
