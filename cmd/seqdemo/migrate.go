package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the audit table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Sink.CreateTable(cmd.Context()); err != nil {
				return err
			}

			a.logger.Info("audit table ready", "table", conn.Sink.TableName())

			return nil
		},
	}
}
