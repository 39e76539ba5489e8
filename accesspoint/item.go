package accesspoint

import (
	"maps"
	"slices"
)

// BaseItem is the map-backed Item used by the storage engines.
//
// Every property of the owning access point's schema is present, unset until assigned.
// Names outside of the schema are rejected with ErrUnknownProperty.
// A BaseItem is not safe for concurrent mutation.
type BaseItem struct {
	accessPoint AccessPoint
	schema      Schema
	values      map[string]Value
}

// NewItem builds a BaseItem owned by ap from values keyed by property name.
//
// A value that already is a Value is stored as is; anything else is stored as a Single.
func NewItem(ap AccessPoint, values map[string]any) (*BaseItem, error) {
	if ap == nil {
		return nil, ErrNilAccessPoint
	}

	item := &BaseItem{
		accessPoint: ap,
		schema:      ap.Schema(),
		values:      make(map[string]Value, len(values)),
	}

	for name, v := range values {
		if !item.schema.Has(name) {
			return nil, UnknownPropertyError(name)
		}

		item.values[name] = ToValue(v)
	}

	return item, nil
}

// ToValue wraps v into a Single unless it already is a Value.
func ToValue(v any) Value {
	if value, ok := v.(Value); ok {
		return value
	}

	return Single(v)
}

// AccessPoint returns the access point the item belongs to.
func (i *BaseItem) AccessPoint() AccessPoint {
	if i == nil {
		return nil
	}

	return i.accessPoint
}

// Get returns the single value, or the first value of a sequence, stored under name.
// Unset properties yield nil.
func (i *BaseItem) Get(name string) (any, error) {
	v, err := i.Value(name)
	if err != nil {
		return nil, err
	}

	return v.First(), nil
}

// Set stores value as a Single under name.
func (i *BaseItem) Set(name string, value any) error {
	if !i.schema.Has(name) {
		return UnknownPropertyError(name)
	}

	i.values[name] = Single(value)

	return nil
}

// GetList returns all values stored under name.
func (i *BaseItem) GetList(name string) ([]any, error) {
	v, err := i.Value(name)
	if err != nil {
		return nil, err
	}

	return v.List(), nil
}

// SetList stores values as a MultiValue under name, whether or not the property is declared multi-valued.
func (i *BaseItem) SetList(name string, values []any) error {
	if !i.schema.Has(name) {
		return UnknownPropertyError(name)
	}

	i.values[name] = MultiValue(values...)

	return nil
}

// Value returns the tagged Value stored under name.
func (i *BaseItem) Value(name string) (Value, error) {
	if !i.schema.Has(name) {
		return Value{}, UnknownPropertyError(name)
	}

	return i.values[name], nil
}

// Has reports whether name is declared in the owning schema.
func (i *BaseItem) Has(name string) bool {
	return i.schema.Has(name)
}

// Names returns the schema's property names, sorted.
func (i *BaseItem) Names() []string {
	return i.schema.Names()
}

// Values returns a copy of the assigned values.
func (i *BaseItem) Values() map[string]Value {
	return maps.Clone(i.values)
}

// Clone returns an independent copy of the item, owned by the same access point.
func (i *BaseItem) Clone() *BaseItem {
	values := make(map[string]Value, len(i.values))
	for name, v := range i.values {
		values[name] = Value{values: slices.Clone(v.values), multi: v.multi, set: v.set}
	}

	return &BaseItem{
		accessPoint: i.accessPoint,
		schema:      i.schema,
		values:      values,
	}
}
