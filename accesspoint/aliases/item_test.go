package aliases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbiro/Multicorn/accesspoint"
	. "github.com/rbiro/Multicorn/accesspoint/aliases" //nolint:revive
	"github.com/rbiro/Multicorn/testutil/helper"
)

func givenAliasedItem(t *testing.T) (*Aliases, *AliasedItem, accesspoint.Item) {
	t.Helper()

	underlying := helper.NewSchemaOnlyAccessPoint(map[string]accesspoint.Property{
		"FOO":   accesspoint.P(accesspoint.TypeInt),
		"other": accesspoint.P(accesspoint.TypeInt),
	})

	ap, err := New(underlying, map[string]string{"foo": "FOO"})
	require.NoError(t, err)

	wrapped, err := accesspoint.NewItem(underlying, map[string]any{"FOO": 9, "other": 0})
	require.NoError(t, err)

	return ap, NewAliasedItem(ap, wrapped), wrapped
}

func Test_AliasedItem_AliasedProperty(t *testing.T) {
	_, item, wrapped := givenAliasedItem(t)

	foo, err := wrapped.Get("FOO")
	require.NoError(t, err)
	assert.Equal(t, 9, foo)

	assert.NoError(t, item.Set("foo", 1))

	foo, _ = wrapped.Get("FOO")
	assert.Equal(t, 1, foo)
	foo, _ = item.Get("foo")
	assert.Equal(t, 1, foo)
}

func Test_AliasedItem_OldNamesAreMasked(t *testing.T) {
	_, item, _ := givenAliasedItem(t)

	assert.False(t, item.Has("FOO"))
	assert.True(t, item.Has("foo"))
	assert.True(t, item.Has("other"))
	assert.False(t, item.Has("nope"))
	assert.Equal(t, []string{"foo", "other"}, item.Names())
}

func Test_AliasedItem_NonAliasedProperty(t *testing.T) {
	_, item, wrapped := givenAliasedItem(t)

	other, _ := wrapped.Get("other")
	assert.Equal(t, 0, other)

	assert.NoError(t, item.Set("other", 2))

	other, _ = wrapped.Get("other")
	assert.Equal(t, 2, other)
}

func Test_AliasedItem_BelongsToTheAliasesAccessPoint(t *testing.T) {
	ap, item, wrapped := givenAliasedItem(t)

	assert.Same(t, ap, item.AccessPoint().(*Aliases))
	assert.Same(t, wrapped, item.Unwrap())
}

func Test_AliasedItem_MultiValuedAccessors(t *testing.T) {
	_, item, wrapped := givenAliasedItem(t)

	assert.NoError(t, item.SetList("foo", []any{2, 3}))

	foo, _ := item.Get("foo")
	foos, _ := item.GetList("foo")
	assert.Equal(t, 2, foo)
	assert.Equal(t, []any{2, 3}, foos)

	underlyingFoo, _ := wrapped.Get("FOO")
	underlyingFoos, _ := wrapped.GetList("FOO")
	assert.Equal(t, 2, underlyingFoo)
	assert.Equal(t, []any{2, 3}, underlyingFoos)

	value, err := item.Value("foo")
	assert.NoError(t, err)
	assert.True(t, value.IsMulti())
}

func Test_AliasedItem_RoundTripNaming(t *testing.T) {
	_, item, wrapped := givenAliasedItem(t)

	// alias -> underlying
	require.NoError(t, item.Set("foo", "via alias"))
	got, _ := wrapped.Get("FOO")
	assert.Equal(t, "via alias", got)

	// underlying -> alias
	require.NoError(t, wrapped.Set("FOO", "via underlying"))
	got, _ = item.Get("foo")
	assert.Equal(t, "via underlying", got)
}

func Test_AliasedItem_UnknownProperty(t *testing.T) {
	_, item, _ := givenAliasedItem(t)

	_, err := item.Get("nope")
	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
	assert.ErrorIs(t, item.Set("nope", 1), accesspoint.ErrUnknownProperty)
	_, err = item.GetList("nope")
	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
	assert.ErrorIs(t, item.SetList("nope", nil), accesspoint.ErrUnknownProperty)
}
