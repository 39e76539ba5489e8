// Package postgresengine provides a PostgreSQL table implementation of accesspoint.AccessPoint.
//
// Every property of the schema is one column of the table. Multi-valued properties are stored as
// jsonb arrays. Requests are translated into SQL with goqu: And, Or and Not become the matching
// boolean operators, Conditions become column comparisons (containment for jsonb arrays).
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Requests validated against the schema before any SQL is sent
//   - Upserting Save keyed on the identity properties
//   - Optional slog-compatible logger and metrics collector
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	things, _ := postgresengine.NewAccessPointFromPGXPool(
//		db,
//		schema,
//		postgresengine.WithTableName("things"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	items, _ := things.Search(ctx, request.C("name", request.Eq, "bar"))
//	err := things.Save(ctx, items[0])
package postgresengine
