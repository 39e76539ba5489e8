package aliases

import (
	"slices"

	"github.com/rbiro/Multicorn/accesspoint"
)

// AliasedItem wraps an item of the underlying access point and exposes it under alias names.
//
// Names given to its accessors are translated to underlying names when they are aliases and passed
// through otherwise. Has and Names only ever speak the alias vocabulary: an underlying name superseded
// by an alias is absent from both, even though its data is reachable through the alias.
type AliasedItem struct {
	accessPoint *Aliases
	item        accesspoint.Item
}

// NewAliasedItem wraps item, which must belong to the access point underlying ap.
func NewAliasedItem(ap *Aliases, item accesspoint.Item) *AliasedItem {
	return &AliasedItem{accessPoint: ap, item: item}
}

// AccessPoint returns the Aliases access point, not the underlying one.
func (i *AliasedItem) AccessPoint() accesspoint.AccessPoint {
	return i.accessPoint
}

// Unwrap returns the wrapped underlying item.
func (i *AliasedItem) Unwrap() accesspoint.Item {
	return i.item
}

// Get returns the value stored under the translated name.
func (i *AliasedItem) Get(name string) (any, error) {
	return i.item.Get(i.accessPoint.Translate(name))
}

// Set stores value under the translated name.
func (i *AliasedItem) Set(name string, value any) error {
	return i.item.Set(i.accessPoint.Translate(name), value)
}

// GetList returns the values stored under the translated name.
func (i *AliasedItem) GetList(name string) ([]any, error) {
	return i.item.GetList(i.accessPoint.Translate(name))
}

// SetList stores values under the translated name.
func (i *AliasedItem) SetList(name string, values []any) error {
	return i.item.SetList(i.accessPoint.Translate(name), values)
}

// Value returns the tagged Value stored under the translated name.
func (i *AliasedItem) Value(name string) (accesspoint.Value, error) {
	return i.item.Value(i.accessPoint.Translate(name))
}

// Has reports whether the wrapped item holds the translated name. Masked names are never held.
func (i *AliasedItem) Has(name string) bool {
	if i.accessPoint.Masked(name) {
		return false
	}

	return i.item.Has(i.accessPoint.Translate(name))
}

// Names returns the names held by the wrapped item, aliased ones under their alias, sorted.
func (i *AliasedItem) Names() []string {
	underlying := i.item.Names()

	names := make([]string, 0, len(underlying))
	for _, name := range underlying {
		names = append(names, i.accessPoint.Reverse(name))
	}

	slices.Sort(names)

	return names
}
