package accesspoint

import (
	"slices"
)

// Value is the content of one property of an Item: either a single value or an ordered
// sequence of values. The zero Value is unset.
//
// While its semantics are fixed, it should only be constructed with the supplied factory methods:
//   - Single
//   - MultiValue
type Value struct {
	values []any
	multi  bool
	set    bool
}

// Single builds a single Value.
func Single(v any) Value {
	return Value{values: []any{v}, set: true}
}

// MultiValue builds a multi Value holding a copy of vs, in order, duplicates kept.
func MultiValue(vs ...any) Value {
	return Value{values: slices.Clone(vs), multi: true, set: true}
}

// IsSet reports whether the Value was assigned at all.
func (v Value) IsSet() bool {
	return v.set
}

// IsMulti reports whether the Value was assigned as a sequence.
func (v Value) IsMulti() bool {
	return v.multi
}

// First returns the single value, or the first element of a sequence.
// It returns nil for an unset Value or an empty sequence.
func (v Value) First() any {
	if len(v.values) == 0 {
		return nil
	}

	return v.values[0]
}

// List returns a copy of the values: one element for a single Value, none when unset.
func (v Value) List() []any {
	if len(v.values) == 0 {
		return []any{}
	}

	return slices.Clone(v.values)
}
