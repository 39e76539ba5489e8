package request

import (
	"cmp"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Record is what Matches needs from an item: every value stored under a property name.
type Record interface {
	GetList(name string) ([]any, error)
}

// Matches evaluates r against rec. A nil Request matches everything.
//
// A Condition on a property holding several values matches when any of them satisfies the
// operator, except for Ne which matches when none of them equals Value. An unset property is
// compared as nil. Errors returned by rec are passed through unchanged.
func Matches(r Request, rec Record) (bool, error) {
	switch node := r.(type) {
	case nil:
		return true, nil

	case Condition:
		return matchCondition(node, rec)

	case And:
		for _, child := range node {
			ok, err := Matches(child, rec)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case Or:
		for _, child := range node {
			ok, err := Matches(child, rec)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case Not:
		ok, err := Matches(node.Request, rec)
		if err != nil {
			return false, err
		}
		return !ok, nil

	default:
		return false, fmt.Errorf("unsupported request node %T", r)
	}
}

func matchCondition(c Condition, rec Record) (bool, error) {
	values, err := rec.GetList(c.Property)
	if err != nil {
		return false, err
	}

	if len(values) == 0 {
		values = []any{nil}
	}

	if c.Operator == Ne {
		for _, v := range values {
			if equal(v, c.Value) {
				return false, nil
			}
		}
		return true, nil
	}

	for _, v := range values {
		ok, err := apply(c.Operator, v, c.Value)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func apply(op Operator, actual, expected any) (bool, error) {
	switch op {
	case Eq:
		return equal(actual, expected), nil

	case Lt, Le, Gt, Ge:
		c, ok := compare(actual, expected)
		if !ok {
			return false, nil
		}
		switch op {
		case Lt:
			return c < 0, nil
		case Le:
			return c <= 0, nil
		case Gt:
			return c > 0, nil
		default:
			return c >= 0, nil
		}

	case Like:
		s, ok := actual.(string)
		pattern, isString := expected.(string)
		if !ok || !isString {
			return false, nil
		}
		return likePattern(pattern).MatchString(s), nil

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

func equal(a, b any) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}

	return reflect.DeepEqual(a, b)
}

// compare orders two values of the same kind; numbers of different Go types compare by value.
func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb), true
		}
		return 0, false
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			default:
				return 1, true
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// likePattern turns a SQL LIKE pattern (% and _ wildcards) into an anchored regexp.
func likePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	return regexp.MustCompile(b.String())
}
