// Package testdoubles provides spies for the observability interfaces of observedseq and its postgres sink,
// plus an EventRecorder that captures everything published through a shared Wiring.
//
//   - MetricsCollectorSpy: captures metric calls, including the context-aware variants
//   - TracingCollectorSpy: captures spans started and finished by the sink
//   - ContextualLoggerSpy: captures context-aware log calls
//   - LogHandlerSpy: a slog.Handler capturing records written through a *slog.Logger
//   - EventRecorder: a recording observer usable as a Wiring for whole test suites
//
// None of them need a telemetry backend or a database.
package testdoubles
