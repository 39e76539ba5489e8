// Package adapters provide database adapter implementations for the PostgreSQL access point.
//
// Three PostgreSQL client libraries are supported: pgx.Pool, sql.DB, and sqlx.DB. All adapters
// present the same DBAdapter interface, so the access point builds its SQL once and runs it
// through whichever connection type the caller owns.
package adapters
