package accesspoint

import (
	"maps"
	"slices"

	"github.com/rbiro/Multicorn/accesspoint/request"
)

// Schema is the set of properties an access point exposes, plus the ordered identity properties.
type Schema struct {
	properties map[string]Property
	identity   []string
}

// NewSchema builds a Schema.
//
// It fails with ErrEmptyPropertyName for empty names and with ErrUnknownProperty when an
// identity property is not declared in properties.
func NewSchema(properties map[string]Property, identity ...string) (Schema, error) {
	for name := range properties {
		if name == "" {
			return Schema{}, ErrEmptyPropertyName
		}
	}

	for _, name := range identity {
		if _, ok := properties[name]; !ok {
			return Schema{}, UnknownPropertyError(name)
		}
	}

	return Schema{
		properties: maps.Clone(properties),
		identity:   slices.Clone(identity),
	}, nil
}

// MustSchema is like NewSchema but panics on error. Meant for tests and static declarations.
func MustSchema(properties map[string]Property, identity ...string) Schema {
	s, err := NewSchema(properties, identity...)
	if err != nil {
		panic(err)
	}

	return s
}

// Property returns the Property declared under name.
func (s Schema) Property(name string) (Property, bool) {
	p, ok := s.properties[name]
	return p, ok
}

// Has reports whether name is declared in the schema.
func (s Schema) Has(name string) bool {
	_, ok := s.properties[name]
	return ok
}

// Properties returns a copy of the property declarations.
func (s Schema) Properties() map[string]Property {
	return maps.Clone(s.properties)
}

// Names returns the declared property names, sorted.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s.properties))
}

// Identity returns a copy of the identity property names, in declaration order.
func (s Schema) Identity() []string {
	return slices.Clone(s.identity)
}

// Len returns the number of declared properties.
func (s Schema) Len() int {
	return len(s.properties)
}

// ValidateRequest fails with ErrUnknownProperty when r references a name the schema does not declare.
func (s Schema) ValidateRequest(r request.Request) error {
	for _, name := range request.PropertyNames(r) {
		if !s.Has(name) {
			return UnknownPropertyError(name)
		}
	}

	return nil
}
