package accesspoint

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProperty is returned when a property name is not part of the relevant schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrAmbiguousAlias is returned when an alias map is not injective or would expose a name twice.
	ErrAmbiguousAlias = errors.New("ambiguous alias")

	// ErrItemNotFound is returned by Open, Delete and Save when no item matches the identity.
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateIdentity is returned when creating an item whose identity already exists.
	ErrDuplicateIdentity = errors.New("an item with the same identity already exists")

	// ErrForeignItem is returned when an item is handed to an access point that does not own it.
	ErrForeignItem = errors.New("item does not belong to this access point")

	// ErrMissingIdentity is returned when an identity mapping lacks one of the identity properties.
	ErrMissingIdentity = errors.New("missing identity property")

	// ErrEmptyPropertyName is returned when a schema declares a property with an empty name.
	ErrEmptyPropertyName = errors.New("empty property name supplied")

	// ErrNilAccessPoint is returned when a nil access point is supplied.
	ErrNilAccessPoint = errors.New("nil access point supplied")
)

// UnknownPropertyError wraps ErrUnknownProperty with the offending name.
func UnknownPropertyError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}
