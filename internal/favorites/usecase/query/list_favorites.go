package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// ListFavoritesQuery represents the query to list all favorites
type ListFavoritesQuery struct{}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	store domain.FavoritesStore
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(store domain.FavoritesStore) *ListFavoritesHandler {
	return &ListFavoritesHandler{store: store}
}

// Handle executes the list favorites query
func (h *ListFavoritesHandler) Handle(ctx context.Context, _ ListFavoritesQuery) (domain.Favorites, error) {
	favs, err := h.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}
