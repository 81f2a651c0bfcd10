package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// FavoriteToggledEvent is emitted after a toggle has been durably written
type FavoriteToggledEvent struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	ProductID      int             `json:"product_id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	Action         string          `json:"action"`
	FavoritesCount int             `json:"favorites_count"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteToggled = "favorite.toggled"
)

// Record headers set on every published event
const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

// Toggle actions
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// Kafka topics
const (
	TopicFavoriteToggled = "favorite-toggled"
)
