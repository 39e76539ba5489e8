// Package aliases provides an access point re-exposing another access point under renamed properties.
//
// Callers of an Aliases access point use alias names; the underlying access point only ever sees
// its original names. Every read, write, membership test, enumeration and request goes through the
// alias map (alias -> underlying name) or its inverse:
//   - requests are rewritten leaf by leaf, keeping the shape of the And/Or/Not tree
//   - properties without an alias pass through unchanged
//   - underlying names superseded by an alias are masked: absent from the schema, from Has and from
//     Names, and rejected in requests and value mappings with accesspoint.ErrUnknownProperty
//
// The proxy holds no lock and performs no I/O of its own: it is safe for concurrent use as far as the
// underlying access point is. Errors raised underneath are returned unchanged, never logged.
//
// Usage example:
//
//	things, _ := memory.New(schema) // properties "id" and "name"
//	aliased, err := aliases.New(things, map[string]string{"nom": "name"})
//	if err != nil {
//		// handle error (accesspoint.ErrAmbiguousAlias)
//	}
//
//	items, err := aliased.Search(ctx, request.C("nom", request.Eq, "bar"))
//	nom, err := items[0].Get("nom")
package aliases
