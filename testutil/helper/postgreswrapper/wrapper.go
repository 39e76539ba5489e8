// Package postgreswrapper provides test utilities for abstracting over the PostgreSQL adapters.
//
// It lets the same integration test run against pgx, sql.DB and sqlx.DB connections. The
// adapter is picked by the ADAPTER_TYPE environment variable and the database by
// MULTICORN_TEST_DSN; tests are skipped when the DSN is not set.
//
// Usage:
//
//	wrapper := CreateWrapperWithTestConfig(t, ThingsSchema())
//
//	ap := wrapper.GetAccessPoint()
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/postgresengine"
	"github.com/rbiro/Multicorn/testutil/config"
	"github.com/rbiro/Multicorn/testutil/helper"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetAccessPoint() *postgresengine.AccessPoint
	Exec(ctx context.Context, query string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	ap   *postgresengine.AccessPoint
}

func (e *PGXPoolWrapper) GetAccessPoint() *postgresengine.AccessPoint {
	return e.ap
}

func (e *PGXPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := e.pool.Exec(ctx, query)
	return err
}

func (e *PGXPoolWrapper) Close() {
	e.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db *sql.DB
	ap *postgresengine.AccessPoint
}

func (e *SQLDBWrapper) GetAccessPoint() *postgresengine.AccessPoint {
	return e.ap
}

func (e *SQLDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := e.db.ExecContext(ctx, query)
	return err
}

func (e *SQLDBWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db *sqlx.DB
	ap *postgresengine.AccessPoint
}

func (e *SQLXWrapper) GetAccessPoint() *postgresengine.AccessPoint {
	return e.ap
}

func (e *SQLXWrapper) Exec(ctx context.Context, query string) error {
	_, err := e.db.ExecContext(ctx, query)
	return err
}

func (e *SQLXWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// CreateWrapperWithTestConfig connects to the test database and creates a uniquely named table for
// schema. Dropping the table and closing the connection are registered with t.Cleanup.
func CreateWrapperWithTestConfig(t testing.TB, schema accesspoint.Schema, options ...postgresengine.Option) Wrapper {
	t.Helper()

	dsn := config.PostgresTestDSN()
	if dsn == "" {
		t.Skipf("%s is not set, skipping postgres integration test", config.DSNEnvVar)
	}

	ctx := context.Background()
	tableName := helper.GivenUniqueTableName(t)
	options = append(options, postgresengine.WithTableName(tableName))

	wrapper := createWrapper(ctx, t, dsn, schema, options)

	t.Cleanup(func() {
		_ = wrapper.Exec(context.Background(), "DROP TABLE IF EXISTS "+pgx.Identifier{tableName}.Sanitize())
		wrapper.Close()
	})

	require.NoError(t, wrapper.GetAccessPoint().CreateTable(ctx), "error creating the test table")

	return wrapper
}

func createWrapper(
	ctx context.Context,
	t testing.TB,
	dsn string,
	schema accesspoint.Schema,
	options []postgresengine.Option,
) Wrapper {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch engineTypeFromEnv {
	case typePGXPool, "":
		poolConfig, err := config.PostgresPGXPoolTestConfig(dsn)
		require.NoError(t, err, "error parsing the test DSN")

		connPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		ap, err := postgresengine.NewAccessPointFromPGXPool(connPool, schema, options...)
		require.NoError(t, err, "error creating access point")

		return &PGXPoolWrapper{pool: connPool, ap: ap}

	case typeSQLDB:
		db, err := config.PostgresSQLDBTestConfig(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		ap, err := postgresengine.NewAccessPointFromSQLDB(db, schema, options...)
		require.NoError(t, err, "error creating access point")

		return &SQLDBWrapper{db: db, ap: ap}

	case typeSQLXDB:
		db, err := config.PostgresSQLXTestConfig(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		ap, err := postgresengine.NewAccessPointFromSQLX(db, schema, options...)
		require.NoError(t, err, "error creating access point")

		return &SQLXWrapper{db: db, ap: ap}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}
