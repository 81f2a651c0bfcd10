package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/catalog/domain"
	favdomain "github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase/query"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/metrics"
)

// CatalogHandler serves catalog products annotated with favorite state
type CatalogHandler struct {
	catalog   domain.Catalog
	favorites *query.ListFavoritesHandler
	metrics   *metrics.HTTPMetrics
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.Catalog, favorites *query.ListFavoritesHandler, httpMetrics *metrics.HTTPMetrics) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		favorites: favorites,
		metrics:   httpMetrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// favoritesUnavailable is reported in place of a favorite flag that could not be read
const favoritesUnavailable = "could not load favorites"

// ProductView is a catalog product with its favorite flag. Favorited is null
// and FavoritesError set when the favorites collection could not be read.
type ProductView struct {
	ID             int         `json:"id"`
	Title          string      `json:"title"`
	Price          json.Number `json:"price"`
	Description    string      `json:"description,omitempty"`
	Category       string      `json:"category"`
	Image          string      `json:"image"`
	Favorited      *bool       `json:"favorited"`
	FavoritesError string      `json:"favorites_error,omitempty"`
}

func newProductView(p domain.Product, favs favdomain.Favorites, favsErr error) ProductView {
	view := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       json.Number(p.Price.String()),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
	if favsErr != nil {
		view.FavoritesError = favoritesUnavailable
		return view
	}
	favorited := favs.Contains(p.ID)
	view.Favorited = &favorited
	return view
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metrics.Middleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/categories", h.metrics.Middleware("/api/products/categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metrics.Middleware("/api/products/{id}", h.GetProduct)).Methods("GET")
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondCatalogError(w, err)
		return
	}

	favs, favsErr := h.loadFavorites(r)
	filtered := domain.Filter(products, search, category)

	views := make([]ProductView, 0, len(filtered))
	for _, p := range filtered {
		views = append(views, newProductView(p, favs, favsErr))
	}

	data := map[string]interface{}{
		"products": views,
		"total":    len(views),
	}
	if favsErr != nil {
		data["favorites_error"] = favoritesUnavailable
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// ListCategories handles GET /api/products/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    append([]string{domain.CategoryAll}, domain.Categories(products)...),
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("product_id", id).Msg("Failed to get product")
		respondCatalogError(w, err)
		return
	}

	favs, favsErr := h.loadFavorites(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newProductView(*product, favs, favsErr),
	})
}

// loadFavorites reads the favorites collection for flagging products. A read
// failure is returned so views report the flag as unknown, not as false.
func (h *CatalogHandler) loadFavorites(r *http.Request) (favdomain.Favorites, error) {
	favs, err := h.favorites.Handle(r.Context(), query.ListFavoritesQuery{})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Favorites unavailable for catalog view")
		return nil, err
	}
	return favs, nil
}

func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Product not found"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Catalog temporarily unavailable"})
	default:
		respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: "Failed to load products"})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
