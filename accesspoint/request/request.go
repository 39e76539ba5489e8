package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var ErrUnknownOperator = errors.New("unknown operator")

// Operator is the comparison applied by a Condition.
type Operator string

const (
	Eq   Operator = "="
	Ne   Operator = "!="
	Lt   Operator = "<"
	Le   Operator = "<="
	Gt   Operator = ">"
	Ge   Operator = ">="
	Like Operator = "like"
)

var operators = []Operator{Eq, Ne, Lt, Le, Gt, Ge, Like}

// ParseOperator returns the Operator spelled s.
func ParseOperator(s string) (Operator, error) {
	for _, op := range operators {
		if string(op) == strings.ToLower(s) {
			return op, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Request is a predicate tree: a Condition, an And, an Or or a Not.
// The set of implementations is closed.
type Request interface {
	fmt.Stringer
	isRequest()
}

/***** Condition *****/

// Condition compares the values of one property with Value.
type Condition struct {
	Property string
	Operator Operator
	Value    any
}

// C builds a Condition.
func C(property string, operator Operator, value any) Condition {
	return Condition{Property: property, Operator: operator, Value: value}
}

func (Condition) isRequest() {}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %#v", c.Property, c.Operator, c.Value)
}

/***** And *****/

// And matches when all of its children match. An empty And matches everything.
type And []Request

func (And) isRequest() {}

func (a And) String() string {
	return join(a, " AND ")
}

/***** Or *****/

// Or matches when at least one of its children matches. An empty Or matches nothing.
type Or []Request

func (Or) isRequest() {}

func (o Or) String() string {
	return join(o, " OR ")
}

/***** Not *****/

// Not matches when its child does not.
type Not struct {
	Request Request
}

func (Not) isRequest() {}

func (n Not) String() string {
	if n.Request == nil {
		return "NOT ()"
	}

	return "NOT " + n.Request.String()
}

func join(children []Request, sep string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		parts = append(parts, child.String())
	}

	return "(" + strings.Join(parts, sep) + ")"
}

// Equal reports whether a and b have the same shape and the same leaves.
func Equal(a, b Request) bool {
	return reflect.DeepEqual(a, b)
}
