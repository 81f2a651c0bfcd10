package favorites

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/favorites/delivery/http"
	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/store"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
	"github.com/tair/storefront/pkg/metrics"
)

// ProvideFavoritesStore wraps the store with tracing
func ProvideFavoritesStore(st *store.Store) domain.FavoritesStore {
	return store.NewTracedStore(st)
}

// Command Handlers Providers
func ProvideToggleFavoriteHandler(fs domain.FavoritesStore, publisher command.EventPublisher) *command.ToggleFavoriteHandler {
	return command.NewToggleFavoriteHandler(fs, publisher)
}

// Query Handlers Providers
func ProvideListFavoritesHandler(fs domain.FavoritesStore) *query.ListFavoritesHandler {
	return query.NewListFavoritesHandler(fs)
}

func ProvideIsFavoriteHandler(fs domain.FavoritesStore) *query.IsFavoriteHandler {
	return query.NewIsFavoriteHandler(fs)
}

// ProvideHTTPHandler provides the favorites HTTP handler
func ProvideHTTPHandler(
	toggleHandler *command.ToggleFavoriteHandler,
	listHandler *query.ListFavoritesHandler,
	isFavoriteHandler *query.IsFavoriteHandler,
	httpMetrics *metrics.HTTPMetrics,
	reg prometheus.Registerer,
) *http.FavoritesHandler {
	return http.NewFavoritesHandlerWithDI(toggleHandler, listHandler, isFavoriteHandler, httpMetrics, reg)
}

// Handlers holds what the service needs from the favorites module
type Handlers struct {
	HTTP          *http.FavoritesHandler
	ListFavorites *query.ListFavoritesHandler
}

// ProvideHandlers provides the module handlers
func ProvideHandlers(httpHandler *http.FavoritesHandler, listHandler *query.ListFavoritesHandler) *Handlers {
	return &Handlers{
		HTTP:          httpHandler,
		ListFavorites: listHandler,
	}
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideFavoritesStore,
)

var CommandHandlerSet = wire.NewSet(
	ProvideToggleFavoriteHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListFavoritesHandler,
	ProvideIsFavoriteHandler,
)

var AllHandlersSet = wire.NewSet(
	StoreSet,
	CommandHandlerSet,
	QueryHandlerSet,
	ProvideHTTPHandler,
	ProvideHandlers,
)
