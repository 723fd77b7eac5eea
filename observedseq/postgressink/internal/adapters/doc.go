// Package adapters lets the postgres sink run on pgxpool.Pool, sql.DB and sqlx.DB alike.
//
// Every adapter satisfies DBAdapter, so the sink only ever deals with plain SQL strings,
// row iteration and affected-row counts.
package adapters
