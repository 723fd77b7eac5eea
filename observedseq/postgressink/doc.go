// Package postgressink persists the events published by observed sequences into a PostgreSQL table.
//
// The Sink supports multiple database adapters (pgx, sql.DB, sqlx). It stores one row per event,
// keyed by sequence ID and position, so appending the same event twice is a no-op. That makes it safe
// to attach the Sink to a channel late, when it receives the whole history as a replay.
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	sink, _ := postgressink.NewSinkFromPGXPool(
//		db,
//		postgressink.WithTableName("my_audit"),
//		postgressink.WithLogger(logger),
//	)
//	_ = sink.CreateTable(ctx)
//
//	seq, _ := observedseq.New(postgressink.Wiring[int](sink), 1, 2, 3)
//	seq.Append(4)
//
//	filter := observedseq.BuildFilter().ForSequences(seq.ID()).Finalize()
//	events, _ := sink.Query(ctx, filter)
package postgressink
