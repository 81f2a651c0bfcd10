package audit

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/kafka"
)

func event(action string, count int) kafka.FavoriteToggledEvent {
	return kafka.FavoriteToggledEvent{
		EventID:        "evt-1",
		EventType:      kafka.EventTypeFavoriteToggled,
		ProductID:      1,
		Title:          "Backpack",
		Price:          decimal.RequireFromString("109.95"),
		Action:         action,
		FavoritesCount: count,
		Timestamp:      time.Now(),
	}
}

func TestRecorder_Handle(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	ctx := context.Background()

	require.NoError(t, r.Handle(ctx, event(kafka.ActionAdded, 1)))
	require.NoError(t, r.Handle(ctx, event(kafka.ActionAdded, 2)))
	require.NoError(t, r.Handle(ctx, event(kafka.ActionRemoved, 1)))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.events.WithLabelValues(kafka.ActionAdded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.events.WithLabelValues(kafka.ActionRemoved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.favoritesCount))
}

func TestRecorder_UnknownAction(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	err := r.Handle(context.Background(), event("renamed", 3))
	assert.ErrorContains(t, err, "unknown favorite action")
	assert.Equal(t, 0.0, testutil.ToFloat64(r.favoritesCount))
}
