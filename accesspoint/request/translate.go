package request

import (
	"maps"
	"slices"
)

// Rename returns a copy of r in which the property name of every Condition went through rename.
//
// Combinator types, child order, operators and values are preserved; r itself is not modified.
func Rename(r Request, rename func(string) string) Request {
	switch node := r.(type) {
	case Condition:
		return Condition{Property: rename(node.Property), Operator: node.Operator, Value: node.Value}

	case And:
		if node == nil {
			return And(nil)
		}
		return And(renameAll(node, rename))

	case Or:
		if node == nil {
			return Or(nil)
		}
		return Or(renameAll(node, rename))

	case Not:
		return Not{Request: Rename(node.Request, rename)}

	default:
		return r
	}
}

// RenameWith is Rename over a name mapping: names absent from mapping are kept.
func RenameWith(r Request, mapping map[string]string) Request {
	return Rename(r, func(name string) string {
		if renamed, ok := mapping[name]; ok {
			return renamed
		}

		return name
	})
}

func renameAll(children []Request, rename func(string) string) []Request {
	renamed := make([]Request, len(children))
	for i, child := range children {
		renamed[i] = Rename(child, rename)
	}

	return renamed
}

// Walk calls visit on every Condition of r, depth first, left to right.
func Walk(r Request, visit func(Condition)) {
	switch node := r.(type) {
	case Condition:
		visit(node)

	case And:
		for _, child := range node {
			Walk(child, visit)
		}

	case Or:
		for _, child := range node {
			Walk(child, visit)
		}

	case Not:
		Walk(node.Request, visit)
	}
}

// PropertyNames returns the property names referenced by r, sorted and without duplicates.
func PropertyNames(r Request) []string {
	names := make(map[string]struct{})
	Walk(r, func(c Condition) {
		names[c.Property] = struct{}{}
	})

	return slices.Sorted(maps.Keys(names))
}
