package helper

import (
	"context"
	"errors"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

// ErrNotSupported is returned by every operation of SchemaOnlyAccessPoint except Schema.
var ErrNotSupported = errors.New("operation not supported by a schema-only access point")

// SchemaOnlyAccessPoint is an accesspoint.AccessPoint test double that only exposes a schema.
// It is meant to own items built directly with accesspoint.NewItem.
type SchemaOnlyAccessPoint struct {
	schema accesspoint.Schema
}

// NewSchemaOnlyAccessPoint creates a SchemaOnlyAccessPoint for the given properties and identity.
func NewSchemaOnlyAccessPoint(properties map[string]accesspoint.Property, identity ...string) *SchemaOnlyAccessPoint {
	return &SchemaOnlyAccessPoint{schema: accesspoint.MustSchema(properties, identity...)}
}

// Schema implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Schema() accesspoint.Schema {
	return ap.schema
}

// Search implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Search(_ context.Context, _ request.Request) ([]accesspoint.Item, error) {
	return nil, ErrNotSupported
}

// Create implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Create(_ context.Context, _ map[string]any) (accesspoint.Item, error) {
	return nil, ErrNotSupported
}

// Open implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Open(_ context.Context, _ map[string]any) (accesspoint.Item, error) {
	return nil, ErrNotSupported
}

// Delete implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Delete(_ context.Context, _ accesspoint.Item) error {
	return ErrNotSupported
}

// Save implements accesspoint.AccessPoint.
func (ap *SchemaOnlyAccessPoint) Save(_ context.Context, _ accesspoint.Item) error {
	return ErrNotSupported
}
