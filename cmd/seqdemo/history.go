package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/observable-sequence-go/internal/prettyprint"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

func newHistoryCommand(a *app) *cobra.Command {
	var sequenceID string
	var kinds []string
	var operations []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the stored events of a sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := buildHistoryFilter(sequenceID, kinds, operations)
			if err != nil {
				return err
			}

			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			events, err := conn.Sink.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}

			printer := prettyprint.NewPrinter(a.out, a.cfg.Color)
			for _, event := range events {
				printer.PrintStored(event)
			}

			a.logger.Debug("history printed", "sequence_id", sequenceID, "event_count", len(events))

			return nil
		},
	}

	cmd.Flags().StringVar(&sequenceID, "sequence", "", "id of the sequence (required)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only events of these kinds (created, accessed, modified)")
	cmd.Flags().StringSliceVar(&operations, "operation", nil, "only events of these operations, e.g. append,splice")
	_ = cmd.MarkFlagRequired("sequence")

	return cmd
}

func buildHistoryFilter(sequenceID string, kinds, operations []string) (observedseq.Filter, error) {
	id, err := uuid.Parse(sequenceID)
	if err != nil {
		return observedseq.Filter{}, fmt.Errorf("invalid sequence id %q: %w", sequenceID, err)
	}

	builder := observedseq.BuildFilter().ForSequences(id).WithOperations(operations...)

	for _, kind := range kinds {
		parsed, err := observedseq.ParseKind(kind)
		if err != nil {
			return observedseq.Filter{}, fmt.Errorf("%w: %q", err, kind)
		}

		builder.OfKinds(parsed)
	}

	return builder.Finalize(), nil
}
