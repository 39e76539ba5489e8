package accesspoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rbiro/Multicorn/accesspoint"
)

func Test_Value_Zero_IsUnset(t *testing.T) {
	var v accesspoint.Value

	assert.False(t, v.IsSet())
	assert.False(t, v.IsMulti())
	assert.Nil(t, v.First())
	assert.Equal(t, []any{}, v.List())
}

func Test_Value_Single(t *testing.T) {
	v := accesspoint.Single(9)

	assert.True(t, v.IsSet())
	assert.False(t, v.IsMulti())
	assert.Equal(t, 9, v.First())
	assert.Equal(t, []any{9}, v.List())
}

func Test_Value_Multi_KeepsOrderAndDuplicates(t *testing.T) {
	v := accesspoint.MultiValue(3, 2, 3)

	assert.True(t, v.IsMulti())
	assert.Equal(t, 3, v.First())
	assert.Equal(t, []any{3, 2, 3}, v.List())
}

func Test_Value_Multi_Empty(t *testing.T) {
	v := accesspoint.MultiValue()

	assert.True(t, v.IsSet())
	assert.Nil(t, v.First())
	assert.Equal(t, []any{}, v.List())
}

func Test_Value_List_ReturnsACopy(t *testing.T) {
	source := []any{1, 2}
	v := accesspoint.MultiValue(source...)
	source[0] = 99

	list := v.List()
	list[1] = 42

	assert.Equal(t, []any{1, 2}, v.List())
}
