package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/slot"
	"github.com/tair/storefront/internal/favorites/store"
	"github.com/tair/storefront/kafka"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.FavoriteToggledEvent
	err    error
}

func (p *recordingPublisher) PublishFavoriteToggled(_ context.Context, event kafka.FavoriteToggledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type failingStore struct {
	domain.FavoritesStore
	err error
}

func (f failingStore) Toggle(context.Context, domain.ProductSummary) (domain.Favorites, error) {
	return nil, f.err
}

func newHandler(t *testing.T, pub EventPublisher) *ToggleFavoriteHandler {
	t.Helper()
	st := store.New(slot.NewMemorySlot())
	t.Cleanup(func() { _ = st.Close() })
	return NewToggleFavoriteHandler(st, pub)
}

func TestToggleFavoriteHandler(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	h := newHandler(t, pub)

	cmd := ToggleFavoriteCommand{
		ID:    1,
		Title: "Fjallraven - Foldsack No. 1 Backpack",
		Price: decimal.RequireFromString("109.95"),
		Image: "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
	}

	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, res.Favorited)
	assert.Equal(t, []int{1}, res.Favorites.IDs())

	res, err = h.Handle(ctx, ToggleFavoriteCommand{ID: 2, Title: "Mens Casual Slim Fit"})
	require.NoError(t, err)
	assert.True(t, res.Favorited)
	assert.Equal(t, []int{1, 2}, res.Favorites.IDs())

	res, err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, res.Favorited)
	assert.Equal(t, []int{2}, res.Favorites.IDs())

	require.Len(t, pub.events, 3)
	assert.Equal(t, kafka.ActionAdded, pub.events[0].Action)
	assert.Equal(t, 1, pub.events[0].FavoritesCount)
	assert.True(t, cmd.Price.Equal(pub.events[0].Price))
	assert.Equal(t, kafka.ActionRemoved, pub.events[2].Action)
	assert.Equal(t, 1, pub.events[2].ProductID)
	assert.Equal(t, 1, pub.events[2].FavoritesCount)
}

func TestToggleFavoriteHandler_InvalidID(t *testing.T) {
	pub := &recordingPublisher{}
	h := newHandler(t, pub)

	for _, id := range []int{0, -3} {
		_, err := h.Handle(context.Background(), ToggleFavoriteCommand{ID: id})
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)
	}
	assert.Empty(t, pub.events)
}

func TestToggleFavoriteHandler_PublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	h := newHandler(t, pub)

	res, err := h.Handle(context.Background(), ToggleFavoriteCommand{ID: 4})
	require.NoError(t, err)
	assert.True(t, res.Favorited)
}

func TestToggleFavoriteHandler_StorageError(t *testing.T) {
	pub := &recordingPublisher{}
	writeErr := &domain.StorageWriteError{Key: domain.FavoritesKey, Err: errors.New("disk full")}
	h := NewToggleFavoriteHandler(failingStore{err: writeErr}, pub)

	_, err := h.Handle(context.Background(), ToggleFavoriteCommand{ID: 4})
	require.Error(t, err)
	assert.True(t, domain.IsStorageWriteError(err))
	assert.Empty(t, pub.events, "no event for a failed toggle")
}

func TestToggleFavoriteHandler_NilPublisher(t *testing.T) {
	h := newHandler(t, nil)

	res, err := h.Handle(context.Background(), ToggleFavoriteCommand{ID: 9})
	require.NoError(t, err)
	assert.True(t, res.Favorited)
}
