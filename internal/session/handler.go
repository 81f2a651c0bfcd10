package session

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/metrics"
)

// LoginHandler serves the login endpoint
type LoginHandler struct {
	auth    *Authenticator
	metrics *metrics.HTTPMetrics
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(auth *Authenticator, httpMetrics *metrics.HTTPMetrics) *LoginHandler {
	return &LoginHandler{auth: auth, metrics: httpMetrics}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *LoginHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/login", h.metrics.Middleware("/api/login", h.Login)).Methods("POST")
}

// Login handles POST /api/login
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.auth.Login(req.Email, req.Password); err != nil {
		logger.Warn(r.Context()).Msg("Login rejected")
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	logger.Info(r.Context()).Msg("Login accepted")
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
	})
}

// Login godoc
// @Summary Log in
// @Description Check the placeholder storefront credentials
// @Tags Session
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/login [post]
func (h *LoginHandler) LoginDoc() {}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
