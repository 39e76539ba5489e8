// Package config provides PostgreSQL database configuration for access point integration tests.
//
// It contains factory functions for the three connection types the postgres engine accepts
// (pgx.Pool, sql.DB, sqlx.DB). The DSN is read from MULTICORN_TEST_DSN; integration tests
// skip themselves when it is not set.
package config
