package postgressink

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgCreateTableFailed        = "failed to create events table"
	logMsgPersistingEventFailed    = "failed to persist observed event"
	logMsgTableCreated             = "table created"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "sink operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrTable                   = "table"
	logAttrEventCount              = "event_count"
	logAttrRowsAffected            = "rows_affected"
	logAttrDurationMS              = "duration_ms"
	logAttrSequenceID              = "sequence_id"
	logAttrPosition                = "position"
	logAttrOperation               = "operation"
	operationAppend                = "append"
	operationQuery                 = "query"
	operationCreateTable           = "create_table"
	spanNamePrefix                 = "observedseq.sink."
	spanAttrOperation              = "operation"
	spanAttrEventCount             = "event_count"
	spanAttrSequenceID             = "sequence_id"
	spanAttrErrorType              = "error_type"
	spanAttrDurationMS             = "duration_ms"
	statusSuccess                  = "success"
	statusError                    = "error"
	labelStatus                    = "status"
	errorTypeBuildQuery            = "build_query"
	errorTypeDatabaseExec          = "database_exec"
	errorTypeDatabaseQuery         = "database_query"
	errorTypeRowScan               = "row_scan"
	errorTypeEncodeEvent           = "encode_event"
	metricAppendDuration           = "observedseq_sink_append_duration_seconds"
	metricQueryDuration            = "observedseq_sink_query_duration_seconds"
	metricErrors                   = "observedseq_sink_errors_total"
	metricEventsAppended           = "observedseq_sink_events_appended"
	metricEventsQueried            = "observedseq_sink_events_queried"
)

// observation tracks one sink operation from start to finish, feeding metrics and tracing.
type observation struct {
	sink      *Sink
	ctx       context.Context
	span      observedseq.SpanContext
	operation string
	start     time.Time
}

// startObservation starts the tracing span for the operation (if tracing is configured)
// and returns the context that carries it.
func (s *Sink) startObservation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*observation, context.Context) {
	attrs[spanAttrOperation] = operation

	var span observedseq.SpanContext
	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, attrs)
	}

	return &observation{
		sink:      s,
		ctx:       ctx,
		span:      span,
		operation: operation,
		start:     time.Now(),
	}, ctx
}

func (o *observation) elapsed() time.Duration {
	return time.Since(o.start)
}

// finishSuccess records the duration and the event count and finishes the span.
func (o *observation) finishSuccess(eventCount int64) {
	duration := o.elapsed()

	o.sink.recordDuration(o.ctx, o.durationMetric(), duration, o.operation, statusSuccess)
	o.sink.recordValue(o.ctx, o.countMetric(), float64(eventCount), o.operation, statusSuccess)

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))
		o.sink.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrEventCount: fmt.Sprintf("%d", eventCount),
		})
	}
}

// finishError records the duration and the error and finishes the span.
func (o *observation) finishError(errorType string) {
	duration := o.elapsed()

	o.sink.recordDuration(o.ctx, o.durationMetric(), duration, o.operation, statusError)
	o.sink.recordError(o.ctx, o.operation, errorType)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorType)
		o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))
		o.sink.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
			spanAttrErrorType: errorType,
		})
	}
}

func (o *observation) durationMetric() string {
	if o.operation == operationQuery {
		return metricQueryDuration
	}

	return metricAppendDuration
}

func (o *observation) countMetric() string {
	if o.operation == operationQuery {
		return metricEventsQueried
	}

	return metricEventsAppended
}

// recordDuration records a duration metric, with context if the collector supports it.
func (s *Sink) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextualCollector, ok := s.metricsCollector.(observedseq.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metric, duration, labels)
	}
}

// recordValue records a value metric, with context if the collector supports it.
func (s *Sink) recordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextualCollector, ok := s.metricsCollector.(observedseq.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
	} else {
		s.metricsCollector.RecordValue(metric, value, labels)
	}
}

// recordError increments the error counter, with context if the collector supports it.
func (s *Sink) recordError(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: statusError, spanAttrErrorType: errorType}

	if contextualCollector, ok := s.metricsCollector.(observedseq.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricErrors, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricErrors, labels)
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s *Sink) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (s *Sink) logOperation(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical failures at warn level.
func (s *Sink) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.logger != nil {
		s.logger.Warn(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logError logs failures at error level.
func (s *Sink) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}
