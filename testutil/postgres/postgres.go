// Package postgres provides helpers for integration tests against a real PostgreSQL database.
//
// The tests run only when SEQDEMO_TEST_POSTGRES_DSN is set; ADAPTER_TYPE selects the adapter
// (pgx.pool, sql.db, sqlx.db) the Sink is created with.
package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-sequence-go/internal/database"
	"github.com/AntonStoeckl/observable-sequence-go/observedseq/postgressink"
)

// Environment variables controlling the integration tests.
const (
	EnvTestDSN     = "SEQDEMO_TEST_POSTGRES_DSN"
	EnvAdapterType = "ADAPTER_TYPE"
)

const setupTimeout = 5 * time.Second

// TestDSN returns the DSN of the test database and skips the test if none is configured.
func TestDSN(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(EnvTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set, skipping postgres integration test", EnvTestDSN)
	}

	return dsn
}

// GivenSink creates a Sink writing to a fresh table that is dropped when the test finishes.
func GivenSink(t testing.TB, options ...postgressink.Option) *postgressink.Sink {
	t.Helper()

	dsn := TestDSN(t)
	tableName := "observed_events_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	connection, err := database.Connect(
		ctx,
		os.Getenv(EnvAdapterType),
		dsn,
		append([]postgressink.Option{postgressink.WithTableName(tableName)}, options...)...,
	)
	require.NoError(t, err, "error connecting to the test database")

	require.NoError(t, connection.Sink.CreateTable(ctx), "error creating the test table")

	t.Cleanup(func() {
		connection.Close()
		dropTable(t, dsn, tableName)
	})

	return connection.Sink
}

func dropTable(t testing.TB, dsn, tableName string) {
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	pool, err := database.NewPGXPool(ctx, dsn)
	if err != nil {
		t.Logf("could not drop test table %s: %v", tableName, err)
		return
	}
	defer pool.Close()

	if _, execErr := pool.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{tableName}.Sanitize()); execErr != nil {
		t.Logf("could not drop test table %s: %v", tableName, execErr)
	}
}
