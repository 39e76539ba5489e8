package request

import (
	"maps"
	"slices"
)

// FromMap turns the flat filter form into an And of equality Conditions, sorted by property name.
// An empty filter yields an empty And, which matches everything.
func FromMap(filter map[string]any) Request {
	conditions := make(And, 0, len(filter))
	for _, name := range slices.Sorted(maps.Keys(filter)) {
		conditions = append(conditions, C(name, Eq, filter[name]))
	}

	return conditions
}
