package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/slot"
	"github.com/tair/storefront/internal/favorites/store"
)

func seededStore(t *testing.T, raw string) *store.Store {
	t.Helper()
	s := slot.NewMemorySlot()
	if raw != "" {
		require.NoError(t, s.Write(context.Background(), domain.FavoritesKey, []byte(raw)))
	}
	st := store.New(s)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestListFavoritesHandler(t *testing.T) {
	h := NewListFavoritesHandler(seededStore(t, `[{"id":3,"title":"c"},{"id":1,"title":"a"}]`))

	favs, err := h.Handle(context.Background(), ListFavoritesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, favs.IDs())
}

func TestListFavoritesHandler_Empty(t *testing.T) {
	h := NewListFavoritesHandler(seededStore(t, ""))

	favs, err := h.Handle(context.Background(), ListFavoritesQuery{})
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}

func TestListFavoritesHandler_Malformed(t *testing.T) {
	h := NewListFavoritesHandler(seededStore(t, `{"broken":true}`))

	_, err := h.Handle(context.Background(), ListFavoritesQuery{})
	require.Error(t, err)
	assert.True(t, domain.IsStorageReadError(err))
}

func TestIsFavoriteHandler(t *testing.T) {
	h := NewIsFavoriteHandler(seededStore(t, `[{"id":3}]`))
	ctx := context.Background()

	ok, err := h.Handle(ctx, IsFavoriteQuery{ProductID: 3})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Handle(ctx, IsFavoriteQuery{ProductID: 4})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Handle(ctx, IsFavoriteQuery{ProductID: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidProductID)
}
