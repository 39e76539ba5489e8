package site_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/aliases"
	"github.com/rbiro/Multicorn/accesspoint/memory"
	"github.com/rbiro/Multicorn/accesspoint/request"
	. "github.com/rbiro/Multicorn/site" //nolint:revive
	"github.com/rbiro/Multicorn/testutil/helper"
)

// givenSite registers a filled "things" table, like the site every scenario starts from.
func givenSite(t *testing.T, options ...Option) (*Site, accesspoint.AccessPoint) {
	t.Helper()

	s, err := New(options...)
	require.NoError(t, err)

	things, err := memory.New(helper.ThingsSchema())
	require.NoError(t, err)
	require.NoError(t, things.Fill(context.Background(), helper.ThingsRows()...))
	require.NoError(t, s.Register("things", things))

	underlying, err := s.AccessPoint("things")
	require.NoError(t, err)

	return s, underlying
}

func givenAliasedRegistered(t *testing.T, aliasMap map[string]string) *Site {
	t.Helper()

	s, underlying := givenSite(t)
	ap, err := aliases.New(underlying, aliasMap)
	require.NoError(t, err)
	require.NoError(t, s.Register("aliased", ap))

	return s
}

func idsOf(t *testing.T, items []accesspoint.Item) []any {
	t.Helper()

	ids := make([]any, 0, len(items))
	for _, item := range items {
		id, err := item.Get("id")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	return ids
}

func Test_AliasedMemory(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenAliasedRegistered(t, map[string]string{"nom": "name"})

	// act
	results, err := s.Search(ctx, "aliased", map[string]any{"nom": "bar"})
	_, maskedErr := s.Search(ctx, "aliased", map[string]any{"name": "bar"})

	// assert
	assert.NoError(t, err)
	assert.ElementsMatch(t, []any{2, 3}, idsOf(t, results))
	assert.ErrorIs(t, maskedErr, accesspoint.ErrUnknownProperty, "old names are masked")
}

func Test_BadKey_FailsWhenThePropertyIsAsked(t *testing.T) {
	ctx := context.Background()
	s := givenAliasedRegistered(t, map[string]string{"test": "unavailable"})

	item, err := s.Create(ctx, "aliased", map[string]any{"id": 4, "name": "spam"})
	require.NoError(t, err)

	_, err = item.Get("test")
	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
}

func Test_Properties_Of_An_OpenedAliasedItem(t *testing.T) {
	s := givenAliasedRegistered(t, map[string]string{"nom": "name"})

	item, err := s.Open(context.Background(), "aliased", map[string]any{"id": 1})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"nom", "id"}, item.Names())
}

func Test_SearchRequest_Validates_NestedConditions(t *testing.T) {
	s := givenAliasedRegistered(t, map[string]string{"nom": "name"})

	_, err := s.SearchRequest(context.Background(), "aliased",
		request.Or{request.C("nom", request.Eq, "foo"), request.Not{Request: request.C("name", request.Eq, "bar")}})

	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
}

func Test_Save_And_Delete_RouteThroughTheOwningAccessPoint(t *testing.T) {
	ctx := context.Background()
	s := givenAliasedRegistered(t, map[string]string{"nom": "name"})

	item, err := s.Open(ctx, "aliased", map[string]any{"id": 2})
	require.NoError(t, err)
	require.NoError(t, item.Set("nom", "baz"))
	require.NoError(t, s.Save(ctx, item))

	underlying, err := s.Open(ctx, "things", map[string]any{"id": 2})
	require.NoError(t, err)
	name, _ := underlying.Get("name")
	assert.Equal(t, "baz", name)

	require.NoError(t, s.Delete(ctx, item))
	remaining, err := s.Search(ctx, "things", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 3}, idsOf(t, remaining))
}

func Test_Save_And_Delete_When_ItemHasNoAccessPoint(t *testing.T) {
	ctx := context.Background()
	s, _ := givenSite(t)

	testCases := []struct {
		name string
		item accesspoint.Item
	}{
		{name: "nil item", item: nil},
		{name: "typed nil item", item: (*accesspoint.BaseItem)(nil)},
		{name: "detached item", item: &accesspoint.BaseItem{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(ctx, tc.item), accesspoint.ErrForeignItem)
			assert.ErrorIs(t, s.Delete(ctx, tc.item), accesspoint.ErrForeignItem)
		})
	}
}

func Test_Register_Failures(t *testing.T) {
	s, things := givenSite(t)

	assert.ErrorIs(t, s.Register("", things), ErrEmptyAccessPointName)
	assert.ErrorIs(t, s.Register("nil", nil), accesspoint.ErrNilAccessPoint)
	assert.ErrorIs(t, s.Register("things", things), ErrAccessPointAlreadyRegistered)
	assert.Equal(t, []string{"things"}, s.Names())
}

func Test_UnknownAccessPoint(t *testing.T) {
	ctx := context.Background()
	s, _ := givenSite(t)

	_, err := s.Search(ctx, "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownAccessPoint)

	_, err = s.Create(ctx, "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownAccessPoint)

	_, err = s.Open(ctx, "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownAccessPoint)
}

func Test_Register_IsLogged(t *testing.T) {
	logHandler := helper.NewLogHandlerSpy(false)

	s, things := givenSite(t, WithLogger(slog.New(logHandler)))
	assert.True(t, logHandler.HasInfoLog("site: access point registered"))

	logHandler.Reset()
	require.NoError(t, s.Register("again", things))
	assert.ErrorIs(t, s.Register("again", things), ErrAccessPointAlreadyRegistered)

	assert.Equal(t, 1, logHandler.GetRecordCount())
	assert.True(t, logHandler.HasInfoLog("site: access point registered"))
}
