package postgressink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink/internal/adapters"
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyTableName = errors.New("table name must not be empty")
var ErrInvalidTimeout = errors.New("timeout must be positive")
var ErrNilErrorHandler = errors.New("nil error handler supplied")
var ErrCreatingTableFailed = errors.New("creating the events table failed")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrAppendingEventsFailed = errors.New("appending events failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrQueryingEventsFailed = errors.New("querying events failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrBuildingStorableEventFailed = errors.New("building storable event failed")

const (
	defaultTableName = "observed_events"
	defaultTimeout   = 5 * time.Second
	dialectPostgres  = "postgres"
	colID            = "id"
	colSequenceID    = "sequence_id"
	colPosition      = "position"
	colKind          = "kind"
	colOperation     = "operation"
	colArguments     = "arguments"
	colSnapshot      = "snapshot"
	colOccurredAt    = "occurred_at"
	castJsonb        = "?::jsonb"
	castTimestamp    = "?::timestamp with time zone"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// Sink persists the events published by observed sequences into a Postgres table and queries them back.
//
// Appending is idempotent per (sequence_id, position), so attaching the Sink late (which replays the history)
// or attaching it twice never stores an event twice.
type Sink struct {
	db               adapters.DBAdapter
	tableName        string
	timeout          time.Duration
	errorHandler     func(error)
	logger           observedseq.Logger
	contextualLogger observedseq.ContextualLogger
	metricsCollector observedseq.MetricsCollector
	tracingCollector observedseq.TracingCollector
}

type queryResultRow struct {
	sequenceID string
	position   int64
	kind       string
	operation  string
	arguments  []byte
	snapshot   []byte
	occurredAt time.Time
}

// NewSinkFromPGXPool creates a new Sink using a pgx Pool with optional configuration.
func NewSinkFromPGXPool(db *pgxpool.Pool, options ...Option) (*Sink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewPGXAdapter(db), options...)
}

// NewSinkFromSQLDB creates a new Sink using a sql.DB with optional configuration.
func NewSinkFromSQLDB(db *sql.DB, options ...Option) (*Sink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewSQLAdapter(db), options...)
}

// NewSinkFromSQLX creates a new Sink using a sqlx.DB with optional configuration.
func NewSinkFromSQLX(db *sqlx.DB, options ...Option) (*Sink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewSQLXAdapter(db), options...)
}

func newSink(db adapters.DBAdapter, options ...Option) (*Sink, error) {
	s := &Sink{
		db:        db,
		tableName: defaultTableName,
		timeout:   defaultTimeout,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// TableName returns the name of the table the Sink writes to.
func (s *Sink) TableName() string {
	return s.tableName
}

// CreateTable creates the events table and its indexes if they don't exist yet.
func (s *Sink) CreateTable(ctx context.Context) error {
	table := pgx.Identifier{s.tableName}.Sanitize()
	statements := []sqlQueryString{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
	%s BIGSERIAL PRIMARY KEY,
	%s TEXT NOT NULL,
	%s BIGINT NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL,
	%s TIMESTAMP WITH TIME ZONE NOT NULL,
	UNIQUE (%s, %s)
)`,
			table, colID, colSequenceID, colPosition, colKind, colOperation, colArguments, colSnapshot, colOccurredAt,
			colSequenceID, colPosition,
		),
		fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s ON %s (%s)`,
			pgx.Identifier{s.tableName + "_" + colOccurredAt + "_idx"}.Sanitize(), table, colOccurredAt,
		),
	}

	for _, statement := range statements {
		start := time.Now()
		_, execErr := s.db.Exec(ctx, statement)
		s.logQueryWithDuration(ctx, statement, operationCreateTable, time.Since(start))

		if execErr != nil {
			s.logError(ctx, logMsgCreateTableFailed, execErr, logAttrQuery, statement)

			return errors.Join(ErrCreatingTableFailed, execErr)
		}
	}

	s.logOperation(ctx, logMsgTableCreated, logAttrTable, s.tableName)

	return nil
}

// Append stores the events and returns how many of them were new.
// Events already stored (same sequence ID and position) are skipped silently.
func (s *Sink) Append(
	ctx context.Context,
	event observedseq.StorableEvent,
	additionalEvents ...observedseq.StorableEvent,
) (int64, error) {
	allEvents := append(observedseq.StorableEvents{event}, additionalEvents...)

	observation, ctx := s.startObservation(ctx, operationAppend, map[string]string{
		spanAttrEventCount: fmt.Sprintf("%d", len(allEvents)),
		spanAttrSequenceID: event.SequenceID,
	})

	sqlQuery, buildQueryErr := s.buildInsertQuery(allEvents)
	if buildQueryErr != nil {
		s.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		observation.finishError(errorTypeBuildQuery)

		return 0, buildQueryErr
	}

	rowsAffected, execErr := s.executeAppendQuery(ctx, sqlQuery)
	if execErr != nil {
		observation.finishError(errorTypeDatabaseExec)

		return 0, execErr
	}

	s.logOperation(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, toMilliseconds(observation.elapsed()),
	)
	observation.finishSuccess(rowsAffected)

	return rowsAffected, nil
}

// executeAppendQuery executes the insert statement and returns the number of inserted rows.
func (s *Sink) executeAppendQuery(ctx context.Context, sqlQuery string) (rowsAffectedInt64, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operationAppend, time.Since(start))

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return 0, errors.Join(ErrAppendingEventsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// Query retrieves the stored events matching the filter, in the order they were stored.
func (s *Sink) Query(ctx context.Context, filter observedseq.Filter) (observedseq.StorableEvents, error) {
	var empty observedseq.StorableEvents

	observation, ctx := s.startObservation(ctx, operationQuery, map[string]string{})

	sqlQuery, buildQueryErr := s.buildSelectQuery(filter)
	if buildQueryErr != nil {
		s.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		observation.finishError(errorTypeBuildQuery)

		return empty, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operationQuery, time.Since(start))

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		observation.finishError(errorTypeDatabaseQuery)

		return empty, errors.Join(ErrQueryingEventsFailed, queryErr)
	}
	defer s.closeRows(ctx, rows)

	events, scanErr := s.processQueryResults(ctx, rows)
	if scanErr != nil {
		observation.finishError(errorTypeRowScan)

		return empty, scanErr
	}

	s.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(events),
		logAttrDurationMS, toMilliseconds(observation.elapsed()),
	)
	observation.finishSuccess(int64(len(events)))

	return events, nil
}

// closeRows closes database rows and logs any errors.
func (s *Sink) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// processQueryResults scans the rows into StorableEvents.
func (s *Sink) processQueryResults(ctx context.Context, rows adapters.DBRows) (observedseq.StorableEvents, error) {
	var empty observedseq.StorableEvents
	events := make(observedseq.StorableEvents, 0)
	row := queryResultRow{}

	for rows.Next() {
		scanErr := rows.Scan(
			&row.sequenceID, &row.position, &row.kind, &row.operation, &row.arguments, &row.snapshot, &row.occurredAt,
		)
		if scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)

			return empty, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		event, buildErr := observedseq.BuildStorableEvent(
			row.sequenceID,
			observedseq.PositionUint(row.position), //nolint:gosec // positions are 1-based and never negative
			row.kind,
			row.operation,
			row.arguments,
			row.snapshot,
			row.occurredAt,
		)
		if buildErr != nil {
			s.logError(ctx, logMsgBuildStorableEventFailed, buildErr, logAttrSequenceID, row.sequenceID)

			return empty, errors.Join(ErrBuildingStorableEventFailed, buildErr)
		}

		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgScanRowFailed, rowsErr)

		return empty, errors.Join(ErrScanningDBRowFailed, rowsErr)
	}

	return events, nil
}

func (s *Sink) buildInsertQuery(events observedseq.StorableEvents) (sqlQueryString, error) {
	rows := make([][]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, []any{
			event.SequenceID,
			int64(event.Position), //nolint:gosec // positions stay far below math.MaxInt64
			event.Kind,
			event.Operation,
			goqu.L(castJsonb, string(event.ArgumentsJSON)),
			goqu.L(castJsonb, string(event.SnapshotJSON)),
			goqu.L(castTimestamp, event.OccurredAt),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Cols(colSequenceID, colPosition, colKind, colOperation, colArguments, colSnapshot, colOccurredAt).
		Vals(rows...).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s *Sink) buildSelectQuery(filter observedseq.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colSequenceID, colPosition, colKind, colOperation, colArguments, colSnapshot, colOccurredAt).
		Where(whereClause(filter)...).
		Order(goqu.I(colID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// whereClause translates the filter into expressions; empty criteria don't restrict the result.
func whereClause(filter observedseq.Filter) []goqu.Expression {
	expressions := make([]goqu.Expression, 0)

	if ids := filter.SequenceIDs(); len(ids) > 0 {
		expressions = append(expressions, goqu.C(colSequenceID).In(ids))
	}

	if kinds := filter.Kinds(); len(kinds) > 0 {
		expressions = append(expressions, goqu.C(colKind).In(kinds))
	}

	if operations := filter.Operations(); len(operations) > 0 {
		expressions = append(expressions, goqu.C(colOperation).In(operations))
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	return expressions
}
