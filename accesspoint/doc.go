// Package accesspoint provides the core abstractions shared by every access point implementation.
//
// An access point exposes a uniform interface over some underlying store (an in-memory table,
// a SQL table, a remote API) through typed properties, items and declarative requests.
//
// Key types:
//   - Property and Schema: the named, typed fields an access point exposes
//   - Value: the single- or multi-valued content of one property
//   - Item and BaseItem: one record belonging to an access point
//   - AccessPoint: schema plus Search, Create, Open, Delete and Save
//
// Implementations live in sub packages: memory (in-memory table), postgresengine (SQL table)
// and aliases (a proxy renaming the properties of another access point).
//
// Common usage pattern:
//
//	things, _ := memory.New(accesspoint.MustSchema(
//		map[string]accesspoint.Property{
//			"id":   accesspoint.P(accesspoint.TypeInt),
//			"name": accesspoint.P(accesspoint.TypeString),
//		},
//		"id",
//	))
//
//	item, err := things.Create(ctx, map[string]any{"id": 1, "name": "foo"})
//	if err != nil {
//		// handle error
//	}
//
//	items, err := things.Search(ctx, request.C("name", request.Eq, "foo"))
package accesspoint
