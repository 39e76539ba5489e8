package accesspoint

import (
	"context"

	"github.com/rbiro/Multicorn/accesspoint/request"
)

// AccessPoint is a uniform interface over a data store: a schema, CRUD operations and a query
// operation taking a request.Request tree.
//
// Implementations own the items they return: Delete and Save only accept items obtained from the
// same access point.
type AccessPoint interface {
	// Schema returns the properties and identity properties exposed by the access point.
	Schema() Schema

	// Search returns the items matching r, in the order defined by the implementation.
	Search(ctx context.Context, r request.Request) ([]Item, error)

	// Create builds, stores and returns a new item from values keyed by property name.
	Create(ctx context.Context, values map[string]any) (Item, error)

	// Open returns the item whose identity properties equal identity.
	// It fails with ErrItemNotFound when there is no such item.
	Open(ctx context.Context, identity map[string]any) (Item, error)

	// Delete removes item from the store.
	Delete(ctx context.Context, item Item) error

	// Save persists the current values of item.
	Save(ctx context.Context, item Item) error
}

// Item is one record of an access point: a mapping from property name to a Value.
type Item interface {
	// AccessPoint returns the access point the item belongs to.
	AccessPoint() AccessPoint

	// Get returns the single value, or the first value of a sequence, stored under name.
	Get(name string) (any, error)

	// Set replaces whatever is stored under name by a single value.
	Set(name string, value any) error

	// GetList returns all values stored under name, in order.
	GetList(name string) ([]any, error)

	// SetList replaces whatever is stored under name by the ordered sequence values.
	SetList(name string, values []any) error

	// Value returns the tagged Value stored under name.
	Value(name string) (Value, error)

	// Has reports whether name is a property the item holds.
	Has(name string) bool

	// Names returns the property names the item holds, sorted.
	Names() []string
}

// IdentityOf extracts the identity mapping of item according to schema.
func IdentityOf(schema Schema, item Item) (map[string]any, error) {
	identity := make(map[string]any, len(schema.identity))

	for _, name := range schema.identity {
		v, err := item.Get(name)
		if err != nil {
			return nil, err
		}

		identity[name] = v
	}

	return identity, nil
}
