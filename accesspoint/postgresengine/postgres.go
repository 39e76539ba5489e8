package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/postgresengine/internal/adapters"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

var (
	ErrNilDatabaseConnection           = errors.New("nil database connection supplied")
	ErrEmptyTableName                  = errors.New("empty table name supplied")
	ErrUnsupportedOperator             = errors.New("operator not supported by the postgres engine")
	ErrUnsupportedRequest              = errors.New("request node not supported by the postgres engine")
	ErrMultipleValuesForSingleProperty = errors.New("several values given for a single-valued property")
	ErrEncodingValueFailed             = errors.New("encoding a multi-valued property failed")
	ErrDecodingValueFailed             = errors.New("decoding a multi-valued property failed")
	ErrBuildingQueryFailed             = errors.New("building query failed")
	ErrQueryingItemsFailed             = errors.New("querying items failed")
	ErrScanningDBRowFailed             = errors.New("scanning db row failed")
	ErrWritingItemFailed               = errors.New("writing item failed")
	ErrGettingRowsAffectedFailed       = errors.New("getting rows affected failed")
)

const (
	defaultTableName          = "items"
	dialectPostgres           = "postgres"
	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgSearchCompleted     = "search completed"
	logMsgItemWritten         = "item written"
	logMsgItemDeleted         = "item deleted"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "postgres access point operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrTable              = "table"
	logAttrItemCount          = "item_count"
	logAttrRowsAffected       = "rows_affected"
	logAttrDurationMS         = "duration_ms"
	operationSearch           = "search"
	operationCreate           = "create"
	operationSave             = "save"
	operationDelete           = "delete"
	metricQueryDuration       = "multicorn_query_duration_seconds"
	metricItemsReturned       = "multicorn_items_returned"
	metricDatabaseErrors      = "multicorn_database_errors_total"
	statusSuccess             = "success"
	statusError               = "error"
	metricLabelOperation      = "operation"
	metricLabelStatus         = "status"
	metricLabelErrorType      = "error_type"
	errorTypeBuildQuery       = "build_query"
	errorTypeDatabaseQuery    = "database_query"
	errorTypeDatabaseExec     = "database_exec"
	errorTypeRowScan          = "row_scan"
	errorTypeRowsAffected     = "rows_affected"
	errorTypeValueDecoding    = "value_decoding"
	errorTypeItemConstruction = "item_construction"
)

type sqlQueryString = string

// AccessPoint is a PostgreSQL table exposed as an accesspoint.AccessPoint.
// It holds no state besides its configuration and is safe for concurrent use.
type AccessPoint struct {
	db               adapters.DBAdapter
	schema           accesspoint.Schema
	columns          []string
	tableName        string
	logger           accesspoint.Logger
	metricsCollector accesspoint.MetricsCollector
}

// NewAccessPointFromPGXPool creates a new AccessPoint using a pgx Pool with optional configuration.
func NewAccessPointFromPGXPool(db *pgxpool.Pool, schema accesspoint.Schema, options ...Option) (*AccessPoint, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAccessPoint(adapters.NewPGXAdapter(db), schema, options...)
}

// NewAccessPointFromSQLDB creates a new AccessPoint using a sql.DB with optional configuration.
func NewAccessPointFromSQLDB(db *sql.DB, schema accesspoint.Schema, options ...Option) (*AccessPoint, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAccessPoint(adapters.NewSQLAdapter(db), schema, options...)
}

// NewAccessPointFromSQLX creates a new AccessPoint using a sqlx.DB with optional configuration.
func NewAccessPointFromSQLX(db *sqlx.DB, schema accesspoint.Schema, options ...Option) (*AccessPoint, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAccessPoint(adapters.NewSQLXAdapter(db), schema, options...)
}

func newAccessPoint(db adapters.DBAdapter, schema accesspoint.Schema, options ...Option) (*AccessPoint, error) {
	ap := &AccessPoint{
		db:        db,
		schema:    schema,
		columns:   schema.Names(),
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(ap); err != nil {
			return nil, err
		}
	}

	return ap, nil
}

// Schema implements accesspoint.AccessPoint.
func (ap *AccessPoint) Schema() accesspoint.Schema {
	return ap.schema
}

// TableName returns the name of the backing table.
func (ap *AccessPoint) TableName() string {
	return ap.tableName
}

// Search selects the rows matching r, ordered by the identity properties.
// It fails with accesspoint.ErrUnknownProperty, before any SQL is sent, when r references a
// property outside of the schema.
func (ap *AccessPoint) Search(ctx context.Context, r request.Request) ([]accesspoint.Item, error) {
	sqlQuery, buildErr := ap.buildSelectQuery(r)
	if buildErr != nil {
		ap.logError(logMsgBuildQueryFailed, buildErr)
		ap.recordErrorMetrics(operationSearch, errorTypeBuildQuery)

		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := ap.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	ap.logQueryWithDuration(sqlQuery, operationSearch, duration)

	if queryErr != nil {
		ap.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		ap.recordErrorMetrics(operationSearch, errorTypeDatabaseQuery)
		ap.recordDurationMetrics(operationSearch, statusError, duration)

		return nil, errors.Join(ErrQueryingItemsFailed, queryErr)
	}
	defer ap.closeRows(rows)

	items, scanErr := ap.processQueryResults(rows)
	if scanErr != nil {
		ap.recordDurationMetrics(operationSearch, statusError, duration)

		return nil, scanErr
	}

	ap.recordDurationMetrics(operationSearch, statusSuccess, duration)
	ap.recordValueMetrics(operationSearch, float64(len(items)))
	ap.logOperation(
		logMsgSearchCompleted,
		logAttrTable, ap.tableName,
		logAttrItemCount, len(items),
		logAttrDurationMS, toMilliseconds(duration))

	return items, nil
}

// processQueryResults converts database rows to items owned by ap.
func (ap *AccessPoint) processQueryResults(rows adapters.DBRows) ([]accesspoint.Item, error) {
	items := make([]accesspoint.Item, 0)
	raw := make([]any, len(ap.columns))
	dest := make([]any, len(ap.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			ap.logError(logMsgScanRowFailed, err)
			ap.recordErrorMetrics(operationSearch, errorTypeRowScan)

			return nil, errors.Join(ErrScanningDBRowFailed, err)
		}

		values := make(map[string]any, len(ap.columns))
		for i, name := range ap.columns {
			property, _ := ap.schema.Property(name)

			value, err := decode(property, raw[i])
			if err != nil {
				ap.recordErrorMetrics(operationSearch, errorTypeValueDecoding)
				return nil, err
			}

			values[name] = value
		}

		item, err := accesspoint.NewItem(ap, values)
		if err != nil {
			ap.recordErrorMetrics(operationSearch, errorTypeItemConstruction)
			return nil, err
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		ap.logError(logMsgScanRowFailed, err)
		ap.recordErrorMetrics(operationSearch, errorTypeRowScan)

		return nil, errors.Join(ErrScanningDBRowFailed, err)
	}

	return items, nil
}

// Create inserts a new row built from values and returns it as an item.
func (ap *AccessPoint) Create(ctx context.Context, values map[string]any) (accesspoint.Item, error) {
	item, err := accesspoint.NewItem(ap, values)
	if err != nil {
		return nil, err
	}

	rec, err := ap.record(item)
	if err != nil {
		return nil, err
	}

	insertStmt := goqu.Dialect(dialectPostgres).Insert(ap.tableName).Rows(rec)

	if _, err := ap.write(ctx, operationCreate, insertStmt); err != nil {
		return nil, err
	}

	return item, nil
}

// Open selects the row whose identity columns equal identity.
func (ap *AccessPoint) Open(ctx context.Context, identity map[string]any) (accesspoint.Item, error) {
	for _, name := range ap.schema.Identity() {
		if _, ok := identity[name]; !ok {
			return nil, fmt.Errorf("%w: %q", accesspoint.ErrMissingIdentity, name)
		}
	}

	items, err := ap.Search(ctx, request.FromMap(identity))
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, accesspoint.ErrItemNotFound
	}

	return items[0], nil
}

// Save upserts the set values of item, keyed on the identity columns.
func (ap *AccessPoint) Save(ctx context.Context, item accesspoint.Item) error {
	if err := ap.checkOwned(item); err != nil {
		return err
	}

	identity := ap.schema.Identity()
	if len(identity) == 0 {
		return accesspoint.ErrMissingIdentity
	}

	rec, err := ap.record(item)
	if err != nil {
		return err
	}

	updates := goqu.Record{}
	for name := range rec {
		if !slices.Contains(identity, name) {
			updates[name] = goqu.I(excludedQualify + "." + name)
		}
	}

	var conflict exp.ConflictExpression = goqu.DoNothing()
	if len(updates) > 0 {
		conflict = goqu.DoUpdate(quoteIdentifiers(identity), updates)
	}

	upsertStmt := goqu.Dialect(dialectPostgres).Insert(ap.tableName).Rows(rec).OnConflict(conflict)

	_, err = ap.write(ctx, operationSave, upsertStmt)

	return err
}

// Delete removes the row sharing the identity of item.
func (ap *AccessPoint) Delete(ctx context.Context, item accesspoint.Item) error {
	if err := ap.checkOwned(item); err != nil {
		return err
	}

	identity, err := accesspoint.IdentityOf(ap.schema, item)
	if err != nil {
		return err
	}

	if len(identity) == 0 {
		return accesspoint.ErrMissingIdentity
	}

	where, err := ap.whereExpression(request.FromMap(identity))
	if err != nil {
		return err
	}

	deleteStmt := goqu.Dialect(dialectPostgres).Delete(ap.tableName).Where(where)

	rowsAffected, err := ap.write(ctx, operationDelete, deleteStmt)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return accesspoint.ErrItemNotFound
	}

	return nil
}

type sqlStatement interface {
	ToSQL() (string, []any, error)
}

// write executes an insert, upsert or delete statement and returns the number of affected rows.
func (ap *AccessPoint) write(ctx context.Context, operation string, stmt sqlStatement) (int64, error) {
	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		ap.logError(logMsgBuildQueryFailed, toSQLErr)
		ap.recordErrorMetrics(operation, errorTypeBuildQuery)

		return 0, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	result, execErr := ap.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	ap.logQueryWithDuration(sqlQuery, operation, duration)

	if execErr != nil {
		ap.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		ap.recordErrorMetrics(operation, errorTypeDatabaseExec)
		ap.recordDurationMetrics(operation, statusError, duration)

		return 0, errors.Join(ErrWritingItemFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		ap.logError(logMsgDBExecFailed, rowsAffectedErr)
		ap.recordErrorMetrics(operation, errorTypeRowsAffected)
		ap.recordDurationMetrics(operation, statusError, duration)

		return 0, errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	ap.recordDurationMetrics(operation, statusSuccess, duration)

	msg := logMsgItemWritten
	if operation == operationDelete {
		msg = logMsgItemDeleted
	}

	ap.logOperation(
		msg,
		logAttrTable, ap.tableName,
		logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, toMilliseconds(duration))

	return rowsAffected, nil
}

func (ap *AccessPoint) buildSelectQuery(r request.Request) (sqlQueryString, error) {
	where, err := ap.whereExpression(r)
	if err != nil {
		return "", err
	}

	cols := make([]any, len(ap.columns))
	for i, name := range ap.columns {
		cols[i] = name
	}

	order := make([]exp.OrderedExpression, 0, len(ap.schema.Identity()))
	for _, name := range ap.schema.Identity() {
		order = append(order, goqu.I(name).Asc())
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(ap.tableName).
		Select(cols...).
		Order(order...)

	if where != nil {
		selectStmt = selectStmt.Where(where)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (ap *AccessPoint) checkOwned(item accesspoint.Item) error {
	if item == nil || item.AccessPoint() != accesspoint.AccessPoint(ap) {
		return accesspoint.ErrForeignItem
	}

	return nil
}

// closeRows closes database rows and logs any errors.
func (ap *AccessPoint) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if ap.logger != nil {
			ap.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}
