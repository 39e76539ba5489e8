package memory_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbiro/Multicorn/accesspoint"
	. "github.com/rbiro/Multicorn/accesspoint/memory" //nolint:revive
	"github.com/rbiro/Multicorn/accesspoint/request"
	"github.com/rbiro/Multicorn/testutil/helper"
)

func givenFilledThings(t *testing.T, options ...Option) *AccessPoint {
	t.Helper()

	ap, err := New(helper.ThingsSchema(), options...)
	require.NoError(t, err)
	require.NoError(t, ap.Fill(context.Background(), helper.ThingsRows()...))

	return ap
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

func Test_Search(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ap := givenFilledThings(t)

	// act
	all, allErr := ap.Search(ctx, nil)
	bars, barsErr := ap.Search(ctx, request.FromMap(map[string]any{"name": "bar"}))
	notFoo, notFooErr := ap.Search(ctx, request.Not{Request: request.C("name", request.Eq, "foo")})

	// assert
	assert.NoError(t, allErr)
	assert.NoError(t, barsErr)
	assert.NoError(t, notFooErr)
	assert.Equal(t, []any{1, 2, 3}, idsOf(t, all))
	assert.Equal(t, []any{2, 3}, idsOf(t, bars))
	assert.Equal(t, []any{2, 3}, idsOf(t, notFoo))
}

func Test_Search_With_UnknownProperty_Fails(t *testing.T) {
	ap, err := New(helper.ThingsSchema())
	require.NoError(t, err)

	_, err = ap.Search(context.Background(), request.C("nom", request.Eq, "bar"))

	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
}

func Test_Search_Returns_Copies(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)

	found, err := ap.Search(ctx, request.C("id", request.Eq, 1))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NoError(t, found[0].Set("name", "changed"))

	again, err := ap.Search(ctx, request.C("id", request.Eq, 1))
	require.NoError(t, err)
	name, _ := again[0].Get("name")
	assert.Equal(t, "foo", name)
}

func Test_Search_Honors_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ap := givenFilledThings(t)

	_, err := ap.Search(ctx, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Create(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)

	item, err := ap.Create(ctx, map[string]any{"id": 4, "name": "spam"})

	assert.NoError(t, err)
	assert.Same(t, ap, item.AccessPoint().(*AccessPoint))
	assert.Equal(t, 4, ap.Len())
}

func Test_Create_Failures(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)

	_, err := ap.Create(ctx, map[string]any{"id": 1, "name": "again"})
	assert.ErrorIs(t, err, accesspoint.ErrDuplicateIdentity)

	_, err = ap.Create(ctx, map[string]any{"name": "anonymous"})
	assert.ErrorIs(t, err, accesspoint.ErrMissingIdentity)

	_, err = ap.Create(ctx, map[string]any{"id": 9, "nom": "x"})
	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)

	assert.Equal(t, 3, ap.Len())
}

func Test_Open(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)

	item, err := ap.Open(ctx, map[string]any{"id": 2})
	require.NoError(t, err)
	name, _ := item.Get("name")
	assert.Equal(t, "bar", name)

	_, err = ap.Open(ctx, map[string]any{"id": 42})
	assert.ErrorIs(t, err, accesspoint.ErrItemNotFound)

	_, err = ap.Open(ctx, map[string]any{"name": "bar"})
	assert.ErrorIs(t, err, accesspoint.ErrMissingIdentity)
}

func Test_Save_And_Delete(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)

	item, err := ap.Open(ctx, map[string]any{"id": 3})
	require.NoError(t, err)
	require.NoError(t, item.Set("name", "baz"))

	assert.NoError(t, ap.Save(ctx, item))
	reopened, err := ap.Open(ctx, map[string]any{"id": 3})
	require.NoError(t, err)
	name, _ := reopened.Get("name")
	assert.Equal(t, "baz", name)

	assert.NoError(t, ap.Delete(ctx, reopened))
	assert.ErrorIs(t, ap.Delete(ctx, reopened), accesspoint.ErrItemNotFound)
	assert.Equal(t, 2, ap.Len())
}

func Test_Save_And_Delete_Reject_ForeignItems(t *testing.T) {
	ctx := context.Background()
	ap := givenFilledThings(t)
	other := givenFilledThings(t)

	foreign, err := other.Open(ctx, map[string]any{"id": 1})
	require.NoError(t, err)

	assert.ErrorIs(t, ap.Save(ctx, foreign), accesspoint.ErrForeignItem)
	assert.ErrorIs(t, ap.Delete(ctx, foreign), accesspoint.ErrForeignItem)
}

func Test_Logging(t *testing.T) {
	logHandler := helper.NewLogHandlerSpy(false)
	ap := givenFilledThings(t, WithLogger(slog.New(logHandler)))

	_, err := ap.Search(context.Background(), request.C("name", request.Eq, "bar"))
	require.NoError(t, err)

	assert.True(t, logHandler.HasInfoLog("memory access point: item created"))
	assert.True(t, logHandler.HasDebugLog("memory access point: search completed"))
}
