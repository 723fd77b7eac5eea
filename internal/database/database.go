// Package database opens configured PostgreSQL connections for the supported adapters (pgx pool, sql.DB, sqlx).
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink"
)

var ErrEmptyDSN = errors.New("postgres dsn must not be empty")
var ErrUnsupportedAdapter = errors.New("unsupported database adapter")
var ErrConnectingFailed = errors.New("connecting to the database failed")

// Adapter names.
const (
	AdapterPGXPool = "pgx.pool"
	AdapterSQLDB   = "sql.db"
	AdapterSQLX    = "sqlx.db"
)

const (
	driverName             = "postgres"
	defaultMaxConnections  = 10
	defaultMinConnections  = 2
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = time.Minute * 5
	defaultHealthCheck     = time.Minute
	defaultConnectTimeout  = time.Second * 5
)

// Connection holds an open database handle together with the Sink created on top of it.
type Connection struct {
	Sink    *postgressink.Sink
	closeFn func()
}

// Close releases the underlying database handle.
func (c *Connection) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// ParseAdapter normalizes an adapter name; an empty name selects the pgx pool.
func ParseAdapter(adapter string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(adapter)); normalized {
	case "", AdapterPGXPool:
		return AdapterPGXPool, nil
	case AdapterSQLDB, AdapterSQLX:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAdapter, adapter)
	}
}

// Connect opens a connection with the given adapter, verifies it, and creates a Sink on top of it.
func Connect(ctx context.Context, adapter, dsn string, options ...postgressink.Option) (*Connection, error) {
	adapter, err := ParseAdapter(adapter)
	if err != nil {
		return nil, err
	}

	switch adapter {
	case AdapterSQLDB:
		db, openErr := OpenSQLDB(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}

		sink, sinkErr := postgressink.NewSinkFromSQLDB(db, options...)
		if sinkErr != nil {
			_ = db.Close()
			return nil, sinkErr
		}

		return &Connection{Sink: sink, closeFn: func() { _ = db.Close() }}, nil

	case AdapterSQLX:
		db, openErr := OpenSQLX(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}

		sink, sinkErr := postgressink.NewSinkFromSQLX(db, options...)
		if sinkErr != nil {
			_ = db.Close()
			return nil, sinkErr
		}

		return &Connection{Sink: sink, closeFn: func() { _ = db.Close() }}, nil

	default:
		pool, openErr := NewPGXPool(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}

		sink, sinkErr := postgressink.NewSinkFromPGXPool(pool, options...)
		if sinkErr != nil {
			pool.Close()
			return nil, sinkErr
		}

		return &Connection{Sink: sink, closeFn: pool.Close}, nil
	}
}

// PGXPoolConfig creates a pgxpool.Config for the given DSN.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheck
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// NewPGXPool creates a pgx pool for the given DSN and pings it.
func NewPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return pool, nil
}

// OpenSQLDB opens a configured *sql.DB (lib/pq) for the given DSN and pings it.
func OpenSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	configurePool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// OpenSQLX opens a configured *sqlx.DB (lib/pq) for the given DSN and pings it.
func OpenSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	configurePool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxConnections)
	db.SetMaxIdleConns(defaultMinConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
