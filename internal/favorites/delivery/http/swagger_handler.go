package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListFavorites godoc
// @Summary List favorites
// @Description Get the favorites collection in insertion order
// @Tags Favorites
// @Produce json
// @Success 200 {object} object{success=bool,data=object{favorites=array,count=int}}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/favorites [get]
func (h *FavoritesHandler) ListFavoritesDoc() {}

// IsFavorite godoc
// @Summary Check a favorite
// @Description Report whether a product is in the favorites collection
// @Tags Favorites
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object{product_id=int,favorited=bool}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/favorites/{id} [get]
func (h *FavoritesHandler) IsFavoriteDoc() {}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Add the product when absent, remove it when present
// @Tags Favorites
// @Accept json
// @Produce json
// @Param request body object{id=int,title=string,price=number,image=string} true "Product summary"
// @Success 200 {object} object{success=bool,message=string,data=object{favorited=bool,favorites=array}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/favorites/toggle [post]
func (h *FavoritesHandler) ToggleFavoriteDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and favorites storage
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *FavoritesHandler) HealthCheckDoc() {}
