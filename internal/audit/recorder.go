package audit

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

// Recorder logs favorite toggle events and exports them as metrics
type Recorder struct {
	events         *prometheus.CounterVec
	favoritesCount prometheus.Gauge
}

// NewRecorder creates a recorder registered on reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "favorites_audit_events_total",
				Help: "Favorite toggle events consumed, by action",
			},
			[]string{"action"},
		),
		favoritesCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "favorites_audit_collection_size",
				Help: "Collection size reported by the latest toggle event",
			},
		),
	}
	reg.MustRegister(r.events, r.favoritesCount)
	return r
}

// Handle records a single event. It matches kafka.EventHandler.
func (r *Recorder) Handle(ctx context.Context, event kafka.FavoriteToggledEvent) error {
	switch event.Action {
	case kafka.ActionAdded, kafka.ActionRemoved:
	default:
		return fmt.Errorf("unknown favorite action %q", event.Action)
	}

	r.events.WithLabelValues(event.Action).Inc()
	r.favoritesCount.Set(float64(event.FavoritesCount))

	logger.Info(ctx).
		Str("event_id", event.EventID).
		Int("product_id", event.ProductID).
		Str("title", event.Title).
		Str("price", event.Price.String()).
		Str("action", event.Action).
		Int("favorites_count", event.FavoritesCount).
		Time("timestamp", event.Timestamp).
		Msg("Favorite toggled")

	return nil
}
