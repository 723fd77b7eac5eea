package postgressink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	. "github.com/AntonStoeckl/observable-sequence-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_Observability_Sink_WithLogger_LogsAppends(t *testing.T) {
	// arrange
	logHandler := NewLogHandlerSpy(false)
	sink := givenSink(t, &fakeDB{rowsAffected: 1}, WithLogger(slog.New(logHandler)))

	// act
	_, err := sink.Append(context.Background(), givenStorableEvent(t, uuid.NewString(), 1))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, logHandler.GetRecordCount(), "append should log exactly one SQL statement and one operational statement")
	assert.True(t, logHandler.HasLogWithAttrKey(slog.LevelDebug, "executed sql for: append", "duration_ms"))
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "sink operation: events appended", "rows_affected", "1"))
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "sink operation: events appended", "event_count", "1"))
}

func Test_Observability_Sink_WithLogger_LogsQueries(t *testing.T) {
	// arrange
	logHandler := NewLogHandlerSpy(false)
	sink := givenSink(t, &fakeDB{}, WithLogger(slog.New(logHandler)))

	// act
	_, err := sink.Query(context.Background(), observedseq.BuildFilter().Finalize())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, logHandler.GetRecordCount())
	assert.True(t, logHandler.HasLogWithAttrKey(slog.LevelDebug, "executed sql for: query", "query"))
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "sink operation: query completed", "event_count", "0"))
}

func Test_Observability_Sink_WithLogger_LogsFailures(t *testing.T) {
	// arrange
	logHandler := NewLogHandlerSpy(false)
	sink := givenSink(t, &fakeDB{execErr: errFakeDB}, WithLogger(slog.New(logHandler)))

	// act
	_, err := sink.Append(context.Background(), givenStorableEvent(t, uuid.NewString(), 1))

	// assert
	assert.Error(t, err)
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelError, "database execution failed during event append", "error", errFakeDB.Error()))
}

func Test_Observability_Sink_WithContextualLogger_ReceivesTheSameMessages(t *testing.T) {
	// arrange
	contextualLogger := NewContextualLoggerSpy(true)
	sink := givenSink(t, &fakeDB{}, WithContextualLogger(contextualLogger))

	// act
	err := sink.CreateTable(context.Background())

	// assert
	require.NoError(t, err)
	assert.Len(t, contextualLogger.GetRecords(slog.LevelDebug), 2, "one per DDL statement")
	assert.True(t, contextualLogger.HasLog(slog.LevelInfo, "sink operation: table created"))
}

func Test_Observability_Sink_WithMetrics_RecordsAppends(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	sink := givenSink(t, &fakeDB{rowsAffected: 2}, WithMetrics(metrics))
	sequenceID := uuid.NewString()

	// act
	_, err := sink.Append(context.Background(), givenStorableEvent(t, sequenceID, 1), givenStorableEvent(t, sequenceID, 2))

	// assert
	require.NoError(t, err)
	assert.True(t,
		metrics.HasDurationRecordForMetric("observedseq_sink_append_duration_seconds").
			WithOperation("append").
			WithStatus("success").
			WithContext().
			Assert(),
	)
	assert.True(t,
		metrics.HasValueRecordForMetric("observedseq_sink_events_appended").
			WithValue(2).
			Assert(),
	)
	assert.Zero(t, metrics.CountRecordsForMetric(MetricTypeCounter, "observedseq_sink_errors_total"))
}

func Test_Observability_Sink_WithMetrics_RecordsErrors(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	sink := givenSink(t, &fakeDB{queryErr: errFakeDB}, WithMetrics(metrics))

	// act
	_, err := sink.Query(context.Background(), observedseq.BuildFilter().Finalize())

	// assert
	assert.Error(t, err)
	assert.True(t,
		metrics.HasCounterRecordForMetric("observedseq_sink_errors_total").
			WithOperation("query").
			WithStatus("error").
			WithLabel("error_type", "database_query").
			Assert(),
	)
	assert.True(t,
		metrics.HasDurationRecordForMetric("observedseq_sink_query_duration_seconds").
			WithStatus("error").
			Assert(),
	)
}

func Test_Observability_Sink_WithTracing_RecordsSpans(t *testing.T) {
	// arrange
	tracing := NewTracingCollectorSpy(true)
	sink := givenSink(t, &fakeDB{rowsAffected: 1}, WithTracing(tracing))
	sequenceID := uuid.NewString()

	// act
	_, appendErr := sink.Append(context.Background(), givenStorableEvent(t, sequenceID, 1))
	_, queryErr := sink.Query(context.Background(), observedseq.BuildFilter().Finalize())

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, queryErr)
	assert.True(t,
		tracing.HasSpanRecordForName("observedseq.sink.append").
			WithStatus("success").
			WithStartAttribute("sequence_id", sequenceID).
			WithStartAttribute("event_count", "1").
			WithEndAttribute("event_count", "1").
			Assert(),
	)
	assert.True(t,
		tracing.HasSpanRecordForName("observedseq.sink.query").
			WithStatus("success").
			WithStartAttribute("operation", "query").
			Assert(),
	)
}

func Test_Observability_Sink_WithTracing_RecordsFailedSpans(t *testing.T) {
	// arrange
	tracing := NewTracingCollectorSpy(true)
	sink := givenSink(t, &fakeDB{execErr: errFakeDB}, WithTracing(tracing))

	// act
	_, err := sink.Append(context.Background(), givenStorableEvent(t, uuid.NewString(), 1))

	// assert
	assert.Error(t, err)
	assert.True(t,
		tracing.HasSpanRecordForName("observedseq.sink.append").
			WithStatus("error").
			WithEndAttribute("error_type", "database_exec").
			Assert(),
	)
}
