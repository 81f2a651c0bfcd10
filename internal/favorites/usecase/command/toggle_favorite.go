package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

// ToggleFavoriteCommand represents the command to add or remove a favorite
type ToggleFavoriteCommand struct {
	ID    int
	Title string
	Price decimal.Decimal
	Image string
}

// ToggleResult is the collection as written by the toggle
type ToggleResult struct {
	Favorited bool             `json:"favorited"`
	Favorites domain.Favorites `json:"favorites"`
}

// EventPublisher publishes toggle events
type EventPublisher interface {
	PublishFavoriteToggled(ctx context.Context, event kafka.FavoriteToggledEvent) error
}

// ToggleFavoriteHandler handles the toggle favorite command
type ToggleFavoriteHandler struct {
	store     domain.FavoritesStore
	publisher EventPublisher
}

// NewToggleFavoriteHandler creates a new toggle favorite handler. A nil
// publisher disables events.
func NewToggleFavoriteHandler(store domain.FavoritesStore, publisher EventPublisher) *ToggleFavoriteHandler {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &ToggleFavoriteHandler{store: store, publisher: publisher}
}

// Handle executes the toggle favorite command
func (h *ToggleFavoriteHandler) Handle(ctx context.Context, cmd ToggleFavoriteCommand) (*ToggleResult, error) {
	if cmd.ID <= 0 {
		return nil, domain.ErrInvalidProductID
	}

	favs, err := h.store.Toggle(ctx, domain.ProductSummary{
		ID:    cmd.ID,
		Title: cmd.Title,
		Price: cmd.Price,
		Image: cmd.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	result := &ToggleResult{
		Favorited: favs.Contains(cmd.ID),
		Favorites: favs,
	}

	action := kafka.ActionRemoved
	if result.Favorited {
		action = kafka.ActionAdded
	}

	err = h.publisher.PublishFavoriteToggled(ctx, kafka.FavoriteToggledEvent{
		ProductID:      cmd.ID,
		Title:          cmd.Title,
		Price:          cmd.Price,
		Action:         action,
		FavoritesCount: len(favs),
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Int("product_id", cmd.ID).
			Msg("Favorite toggled but event was not published")
	}

	return result, nil
}
