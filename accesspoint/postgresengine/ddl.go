package postgresengine

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rbiro/Multicorn/accesspoint"
)

var ErrCreatingTableFailed = errors.New("creating table failed")

const (
	operationCreateTable = "create_table"
	logMsgTableCreated   = "table created"
	errorTypeCreateTable = "create_table"
)

// columnType maps a property onto the PostgreSQL column type used to store it.
// Multi-valued properties are stored as jsonb arrays.
func columnType(property accesspoint.Property) string {
	if property.MultiValued {
		return "jsonb"
	}

	switch property.Type {
	case accesspoint.TypeInt:
		return "bigint"
	case accesspoint.TypeFloat:
		return "double precision"
	case accesspoint.TypeBool:
		return "boolean"
	case accesspoint.TypeTime:
		return "timestamptz"
	case accesspoint.TypeUUID:
		return "uuid"
	default:
		return "text"
	}
}

// CreateTableStatement renders the DDL of a table able to back an access point on schema.
func CreateTableStatement(tableName string, schema accesspoint.Schema) string {
	var b strings.Builder

	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pgx.Identifier{tableName}.Sanitize())
	b.WriteString(" (")

	for i, name := range schema.Names() {
		property, _ := schema.Property(name)

		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(pgx.Identifier{name}.Sanitize())
		b.WriteString(" ")
		b.WriteString(columnType(property))
	}

	if identity := schema.Identity(); len(identity) > 0 {
		b.WriteString(", PRIMARY KEY (")
		b.WriteString(quoteIdentifiers(identity))
		b.WriteString(")")
	}

	b.WriteString(")")

	return b.String()
}

// quoteIdentifiers renders names as a comma separated list of quoted identifiers.
func quoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = pgx.Identifier{name}.Sanitize()
	}

	return strings.Join(quoted, ", ")
}

// CreateTable creates the backing table if it does not exist yet.
func (ap *AccessPoint) CreateTable(ctx context.Context) error {
	sqlQuery := CreateTableStatement(ap.tableName, ap.schema)

	if _, err := ap.db.Exec(ctx, sqlQuery); err != nil {
		ap.logError(logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		ap.recordErrorMetrics(operationCreateTable, errorTypeCreateTable)

		return errors.Join(ErrCreatingTableFailed, err)
	}

	ap.logOperation(logMsgTableCreated, logAttrTable, ap.tableName)

	return nil
}
