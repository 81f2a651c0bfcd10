//go:build wireinject
// +build wireinject

package favorites

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/favorites/store"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/pkg/metrics"
)

// InitializeHandlers initializes the favorites handlers with all dependencies
func InitializeHandlers(
	st *store.Store,
	publisher command.EventPublisher,
	httpMetrics *metrics.HTTPMetrics,
	reg prometheus.Registerer,
) (*Handlers, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}
