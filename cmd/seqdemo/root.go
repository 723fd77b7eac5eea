package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/observable-sequence-go/internal/config"
	"github.com/AntonStoeckl/observable-sequence-go/internal/database"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/oteladapters"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink"
)

var ErrPostgresNotConfigured = errors.New("no postgres dsn configured, set postgres.dsn or SEQDEMO_POSTGRES_DSN")

const instrumentationName = "github.com/AntonStoeckl/observable-sequence-go/cmd/seqdemo"

// app carries what every subcommand needs, prepared once the config is loaded.
type app struct {
	out    io.Writer
	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}
	var configPath string

	root := &cobra.Command{
		Use:   "seqdemo",
		Short: "Observable sequence demo",
		Long: `seqdemo runs operations on an observed sequence and prints every event it publishes.

With a postgres DSN configured, the events are also stored in an audit table,
which the history command queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = newLogger(errOut, cfg.Log)

			return nil
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./seqdemo.yaml)")

	root.AddCommand(newRunCommand(a), newHistoryCommand(a), newMigrateCommand(a))

	return root
}

func newLogger(out io.Writer, cfg config.Log) *slog.Logger {
	options := &slog.HandlerOptions{Level: cfg.Level}

	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, options))
	}

	return slog.New(slog.NewTextHandler(out, options))
}

// sequenceOptions returns the options for observed sequences, using the OpenTelemetry globals if enabled.
func (a *app) sequenceOptions() []observedseq.Option {
	options := []observedseq.Option{observedseq.WithLogger(a.logger)}

	if a.cfg.OTel {
		options = append(options, observedseq.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))))
	}

	return options
}

// connect opens the configured database and returns a Sink on top of it.
func (a *app) connect(ctx context.Context) (*database.Connection, error) {
	if !a.cfg.Postgres.Enabled() {
		return nil, ErrPostgresNotConfigured
	}

	options := []postgressink.Option{
		postgressink.WithTableName(a.cfg.Postgres.Table),
		postgressink.WithTimeout(a.cfg.Postgres.Timeout),
		postgressink.WithLogger(a.logger),
		postgressink.WithErrorHandler(func(err error) {
			a.logger.Warn("event could not be stored", "error", err.Error())
		}),
	}

	if a.cfg.OTel {
		options = append(
			options,
			postgressink.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
			postgressink.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
			postgressink.WithContextualLogger(oteladapters.NewSlogBridgeLogger(instrumentationName)),
		)
	}

	return database.Connect(ctx, a.cfg.Postgres.Adapter, a.cfg.Postgres.DSN, options...)
}
