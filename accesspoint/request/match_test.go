package request_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/rbiro/Multicorn/accesspoint/request" //nolint:revive
)

var errNoSuchProperty = errors.New("no such property")

type recordStub map[string][]any

func (r recordStub) GetList(name string) ([]any, error) {
	values, ok := r[name]
	if !ok {
		return nil, errNoSuchProperty
	}

	return values, nil
}

//nolint:funlen
func Test_Matches(t *testing.T) {
	rec := recordStub{
		"id":    {2},
		"name":  {"bar"},
		"tags":  {"a", "b"},
		"score": {1.5},
		"at":    {time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		"unset": {},
	}

	tests := []struct {
		name     string
		request  Request
		expected bool
	}{
		{"nil_matches_all", nil, true},
		{"eq", C("name", Eq, "bar"), true},
		{"eq_mismatch", C("name", Eq, "foo"), false},
		{"eq_across_numeric_types", C("id", Eq, int64(2)), true},
		{"ne", C("name", Ne, "foo"), true},
		{"lt", C("id", Lt, 3), true},
		{"le", C("id", Le, 2), true},
		{"gt", C("score", Gt, 1), true},
		{"ge_mismatch", C("score", Ge, 2), false},
		{"time_gt", C("at", Gt, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), true},
		{"incomparable_is_false", C("name", Lt, 3), false},
		{"like_prefix", C("name", Like, "b%"), true},
		{"like_single_char", C("name", Like, "b_r"), true},
		{"like_mismatch", C("name", Like, "f%"), false},
		{"multi_any_element", C("tags", Eq, "b"), true},
		{"multi_ne_none_equal", C("tags", Ne, "b"), false},
		{"unset_equals_nil", C("unset", Eq, nil), true},
		{"empty_and", And{}, true},
		{"empty_or", Or{}, false},
		{"and", And{C("id", Eq, 2), C("name", Eq, "bar")}, true},
		{"and_mismatch", And{C("id", Eq, 2), C("name", Eq, "foo")}, false},
		{"or", Or{C("id", Eq, 1), C("name", Eq, "bar")}, true},
		{"not", Not{Request: C("id", Eq, 1)}, true},
		{"nested", Not{Request: Or{C("id", Eq, 1), And{C("name", Eq, "bar"), C("score", Lt, 1)}}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := Matches(tc.request, rec)

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func Test_Matches_PropagatesRecordErrors(t *testing.T) {
	_, err := Matches(Not{Request: C("missing", Eq, 1)}, recordStub{})

	assert.ErrorIs(t, err, errNoSuchProperty)
}

func Test_Matches_UnknownOperator(t *testing.T) {
	_, err := Matches(C("id", Operator("~"), 1), recordStub{"id": {1}})

	assert.ErrorIs(t, err, ErrUnknownOperator)
}
