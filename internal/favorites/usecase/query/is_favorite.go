package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// IsFavoriteQuery represents the query to check a single product
type IsFavoriteQuery struct {
	ProductID int
}

// IsFavoriteHandler handles is favorite query
type IsFavoriteHandler struct {
	store domain.FavoritesStore
}

// NewIsFavoriteHandler creates a new is favorite handler
func NewIsFavoriteHandler(store domain.FavoritesStore) *IsFavoriteHandler {
	return &IsFavoriteHandler{store: store}
}

// Handle executes the is favorite query
func (h *IsFavoriteHandler) Handle(ctx context.Context, query IsFavoriteQuery) (bool, error) {
	if query.ProductID <= 0 {
		return false, domain.ErrInvalidProductID
	}

	ok, err := h.store.Contains(ctx, query.ProductID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return ok, nil
}
