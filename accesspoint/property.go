package accesspoint

// TypeTag names the semantic type of a Property.
// It is descriptive only: values are neither validated nor coerced against it.
type TypeTag int

const (
	TypeAny TypeTag = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeTime
	TypeUUID
)

// String provides a string representation of TypeTag for logging and configuration.
func (t TypeTag) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeTime:
		return "time"
	case TypeUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ParseTypeTag is the inverse of TypeTag.String.
func ParseTypeTag(s string) (TypeTag, bool) {
	for t := TypeAny; t <= TypeUUID; t++ {
		if t.String() == s {
			return t, true
		}
	}

	return TypeAny, false
}

// Property describes one field of an access point's schema.
// It is immutable once declared; its name is the key it is declared under.
type Property struct {
	Type        TypeTag
	MultiValued bool
}

// P declares a single-valued Property of the given type.
func P(t TypeTag) Property {
	return Property{Type: t}
}

// Multi declares a multi-valued Property of the given type.
func Multi(t TypeTag) Property {
	return Property{Type: t, MultiValued: true}
}
