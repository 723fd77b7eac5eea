package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// sqlConn is what sql.DB and sqlx.DB have in common.
type sqlConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLAdapter runs the sink's statements on a database/sql connection.
type SQLAdapter struct {
	conn sqlConn
}

// NewSQLAdapter wraps db.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}

// NewSQLXAdapter wraps db, which the sink uses through its database/sql methods.
func NewSQLXAdapter(db *sqlx.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}

func (a *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := a.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return result, nil
}
