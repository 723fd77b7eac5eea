package postgressink

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink/internal/adapters"
)

var errFakeDB = errors.New("fake database failure")

type fakeRow struct {
	sequenceID string
	position   int64
	kind       string
	operation  string
	arguments  []byte
	snapshot   []byte
	occurredAt time.Time
}

// fakeDB records every statement it receives and answers with canned results.
type fakeDB struct {
	mu              sync.Mutex
	statements      []string
	rows            []fakeRow
	rowsAffected    int64
	execErr         error
	queryErr        error
	scanErr         error
	iterationErr    error
	rowsAffectedErr error
	closeErr        error
	closed          bool
}

func (db *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.statements = append(db.statements, query)

	if db.queryErr != nil {
		return nil, db.queryErr
	}

	return &fakeRows{db: db, rows: db.rows, index: -1}, nil
}

func (db *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.statements = append(db.statements, query)

	if db.execErr != nil {
		return nil, db.execErr
	}

	return fakeResult{rowsAffected: db.rowsAffected, err: db.rowsAffectedErr}, nil
}

func (db *fakeDB) Statements() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	return append([]string(nil), db.statements...)
}

func (db *fakeDB) LastStatement() string {
	statements := db.Statements()
	if len(statements) == 0 {
		return ""
	}

	return statements[len(statements)-1]
}

type fakeRows struct {
	db    *fakeDB
	rows  []fakeRow
	index int
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.db.scanErr != nil {
		return r.db.scanErr
	}

	row := r.rows[r.index]
	*dest[0].(*string) = row.sequenceID
	*dest[1].(*int64) = row.position
	*dest[2].(*string) = row.kind
	*dest[3].(*string) = row.operation
	*dest[4].(*[]byte) = row.arguments
	*dest[5].(*[]byte) = row.snapshot
	*dest[6].(*time.Time) = row.occurredAt

	return nil
}

func (r *fakeRows) Err() error {
	return r.db.iterationErr
}

func (r *fakeRows) Close() error {
	r.db.closed = true
	return r.db.closeErr
}

type fakeResult struct {
	rowsAffected int64
	err          error
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}
