package helper

import (
	"github.com/rbiro/Multicorn/accesspoint"
)

// ThingsSchema is the "things" table used across tests: an int identity and a string name.
func ThingsSchema() accesspoint.Schema {
	return accesspoint.MustSchema(
		map[string]accesspoint.Property{
			"id":   accesspoint.P(accesspoint.TypeInt),
			"name": accesspoint.P(accesspoint.TypeString),
		},
		"id",
	)
}

// ThingsRows are the rows the "things" table is filled with.
func ThingsRows() []map[string]any {
	return []map[string]any{
		{"id": 1, "name": "foo"},
		{"id": 2, "name": "bar"},
		{"id": 3, "name": "bar"},
	}
}
