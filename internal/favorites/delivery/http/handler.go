package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/store"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/metrics"
)

// FavoritesHandler handles HTTP requests for favorites using CQRS pattern
type FavoritesHandler struct {
	// Command handlers
	toggleHandler *command.ToggleFavoriteHandler

	// Query handlers
	listHandler       *query.ListFavoritesHandler
	isFavoriteHandler *query.IsFavoriteHandler

	metrics        *metrics.HTTPMetrics
	totalFavorites prometheus.Gauge
	toggleCounter  *prometheus.CounterVec
}

// NewFavoritesHandler creates a new favorites handler (manual DI)
func NewFavoritesHandler(
	favorites domain.FavoritesStore,
	publisher command.EventPublisher,
	httpMetrics *metrics.HTTPMetrics,
	reg prometheus.Registerer,
) *FavoritesHandler {
	return NewFavoritesHandlerWithDI(
		command.NewToggleFavoriteHandler(favorites, publisher),
		query.NewListFavoritesHandler(favorites),
		query.NewIsFavoriteHandler(favorites),
		httpMetrics,
		reg,
	)
}

// NewFavoritesHandlerWithDI creates a new favorites handler from prebuilt use cases.
// This is used by Wire for automatic dependency injection
func NewFavoritesHandlerWithDI(
	toggleHandler *command.ToggleFavoriteHandler,
	listHandler *query.ListFavoritesHandler,
	isFavoriteHandler *query.IsFavoriteHandler,
	httpMetrics *metrics.HTTPMetrics,
	reg prometheus.Registerer,
) *FavoritesHandler {
	totalFavorites := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_favorites_total",
			Help: "Number of products in the favorites collection",
		},
	)

	toggleCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_favorite_toggles_total",
			Help: "Total number of successful favorite toggles",
		},
		[]string{"action"},
	)

	reg.MustRegister(totalFavorites, toggleCounter)

	return &FavoritesHandler{
		toggleHandler:     toggleHandler,
		listHandler:       listHandler,
		isFavoriteHandler: isFavoriteHandler,
		metrics:           httpMetrics,
		totalFavorites:    totalFavorites,
		toggleCounter:     toggleCounter,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *FavoritesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/favorites", h.metrics.Middleware("/api/favorites", h.ListFavorites)).Methods("GET")
	router.HandleFunc("/api/favorites/toggle", h.metrics.Middleware("/api/favorites/toggle", h.ToggleFavorite)).Methods("POST")
	router.HandleFunc("/api/favorites/{id}", h.metrics.Middleware("/api/favorites/{id}", h.IsFavorite)).Methods("GET")
}

// ListFavorites handles GET /api/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.listHandler.Handle(r.Context(), query.ListFavoritesQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list favorites")
		respondStoreError(w, err)
		return
	}

	h.totalFavorites.Set(float64(len(favs)))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"favorites": favs,
			"count":     len(favs),
		},
	})
}

// IsFavorite handles GET /api/favorites/{id}
func (h *FavoritesHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	ok, err := h.isFavoriteHandler.Handle(r.Context(), query.IsFavoriteQuery{ProductID: id})
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("product_id", id).Msg("Failed to check favorite")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"product_id": id,
			"favorited":  ok,
		},
	})
}

// ToggleFavorite handles POST /api/favorites/toggle
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductSummary
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.ToggleFavoriteCommand{
		ID:    req.ID,
		Title: req.Title,
		Price: req.Price,
		Image: req.Image,
	}

	result, err := h.toggleHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("product_id", req.ID).Msg("Failed to toggle favorite")
		respondStoreError(w, err)
		return
	}

	action := "removed"
	message := "Removed from favorites"
	if result.Favorited {
		action = "added"
		message = "Added to favorites"
	}
	h.toggleCounter.WithLabelValues(action).Inc()
	h.totalFavorites.Set(float64(len(result.Favorites)))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

func (h *FavoritesHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.listHandler.Handle(r.Context(), query.ListFavoritesQuery{}); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Health check failed")
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Favorites storage unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront service is healthy",
		})
	}).Methods("GET")
}

// statusClientClosedRequest is the nginx convention for a request the client
// abandoned before a response was ready
const statusClientClosedRequest = 499

// respondStoreError maps use case and storage errors to HTTP responses
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		respondJSON(w, statusClientClosedRequest, Response{Success: false, Error: "Request canceled"})
	case errors.Is(err, context.DeadlineExceeded):
		respondJSON(w, http.StatusGatewayTimeout, Response{Success: false, Error: "Request timed out"})
	case errors.Is(err, domain.ErrInvalidProductID):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
	case errors.Is(err, store.ErrStoreClosed):
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Favorites are unavailable"})
	case domain.IsStorageReadError(err):
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "could not load favorites"})
	case domain.IsStorageWriteError(err):
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "could not save favorite"})
	default:
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
