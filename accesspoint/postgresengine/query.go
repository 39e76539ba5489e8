package postgresengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	litTrue         = "TRUE"
	litFalse        = "FALSE"
	litNot          = "NOT (?)"
	litContains     = "? @> ?::jsonb"
	litJsonb        = "?::jsonb"
	excludedQualify = "excluded"
)

// whereExpression turns r into a goqu expression. A nil Request yields a nil expression.
func (ap *AccessPoint) whereExpression(r request.Request) (exp.Expression, error) {
	switch node := r.(type) {
	case nil:
		return nil, nil

	case request.Condition:
		return ap.conditionExpression(node)

	case request.And:
		if len(node) == 0 {
			return goqu.L(litTrue), nil
		}

		children, err := ap.childExpressions(node)
		if err != nil {
			return nil, err
		}

		return goqu.And(children...), nil

	case request.Or:
		if len(node) == 0 {
			return goqu.L(litFalse), nil
		}

		children, err := ap.childExpressions(node)
		if err != nil {
			return nil, err
		}

		return goqu.Or(children...), nil

	case request.Not:
		child, err := ap.whereExpression(node.Request)
		if err != nil {
			return nil, err
		}

		if child == nil {
			return goqu.L(litFalse), nil
		}

		return goqu.L(litNot, child), nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRequest, r)
	}
}

func (ap *AccessPoint) childExpressions(children []request.Request) ([]exp.Expression, error) {
	expressions := make([]exp.Expression, 0, len(children))

	for _, child := range children {
		expression, err := ap.whereExpression(child)
		if err != nil {
			return nil, err
		}

		if expression != nil {
			expressions = append(expressions, expression)
		}
	}

	return expressions, nil
}

func (ap *AccessPoint) conditionExpression(c request.Condition) (exp.Expression, error) {
	property, ok := ap.schema.Property(c.Property)
	if !ok {
		return nil, accesspoint.UnknownPropertyError(c.Property)
	}

	if property.MultiValued {
		return ap.containmentExpression(c)
	}

	col := goqu.C(c.Property)

	switch c.Operator {
	case request.Eq:
		return col.Eq(c.Value), nil
	case request.Ne:
		return col.Neq(c.Value), nil
	case request.Lt:
		return col.Lt(c.Value), nil
	case request.Le:
		return col.Lte(c.Value), nil
	case request.Gt:
		return col.Gt(c.Value), nil
	case request.Ge:
		return col.Gte(c.Value), nil
	case request.Like:
		return col.Like(c.Value), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, c.Operator)
	}
}

// containmentExpression compares a jsonb array column: Eq holds when any element equals the value.
func (ap *AccessPoint) containmentExpression(c request.Condition) (exp.Expression, error) {
	encoded, err := json.MarshalToString([]any{c.Value})
	if err != nil {
		return nil, errors.Join(ErrEncodingValueFailed, err)
	}

	contains := goqu.L(litContains, goqu.C(c.Property), encoded)

	switch c.Operator {
	case request.Eq:
		return contains, nil
	case request.Ne:
		return goqu.L(litNot, contains), nil
	default:
		return nil, fmt.Errorf("%w: %q on multi-valued property %q", ErrUnsupportedOperator, c.Operator, c.Property)
	}
}

// record turns the set values of item into a goqu.Record, encoding multi-valued properties as jsonb.
func (ap *AccessPoint) record(item accesspoint.Item) (goqu.Record, error) {
	rec := goqu.Record{}

	for _, name := range ap.columns {
		value, err := item.Value(name)
		if err != nil {
			return nil, err
		}

		if !value.IsSet() {
			continue
		}

		property, _ := ap.schema.Property(name)
		if !property.MultiValued {
			if len(value.List()) > 1 {
				return nil, fmt.Errorf("%w: %q", ErrMultipleValuesForSingleProperty, name)
			}

			rec[name] = value.First()
			continue
		}

		encoded, err := json.MarshalToString(value.List())
		if err != nil {
			return nil, errors.Join(ErrEncodingValueFailed, err)
		}

		rec[name] = goqu.L(litJsonb, encoded)
	}

	return rec, nil
}

// decode turns a raw column value into the Value stored in an item.
func decode(property accesspoint.Property, raw any) (accesspoint.Value, error) {
	if !property.MultiValued {
		return accesspoint.Single(raw), nil
	}

	var values []any

	switch v := raw.(type) {
	case nil:
		return accesspoint.MultiValue(), nil
	case []any:
		values = v
	case []byte:
		if err := json.Unmarshal(v, &values); err != nil {
			return accesspoint.Value{}, errors.Join(ErrDecodingValueFailed, err)
		}
	case string:
		if err := json.UnmarshalFromString(v, &values); err != nil {
			return accesspoint.Value{}, errors.Join(ErrDecodingValueFailed, err)
		}
	default:
		return accesspoint.Value{}, fmt.Errorf("%w: unexpected %T", ErrDecodingValueFailed, raw)
	}

	return accesspoint.MultiValue(values...), nil
}
