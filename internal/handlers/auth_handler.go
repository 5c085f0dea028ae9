package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication
type AuthService interface {
	// Register creates an account
	//
	// "ctx" is the context for the request.
	// "req" holds username, e-mail and password.
	//
	// Returns a token pair and an error if any.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	// Login checks credentials
	//
	// "ctx" is the context for the request.
	// "req" holds e-mail and password.
	//
	// Returns a token pair and an error if any.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	// Refresh exchanges a refresh token for a new token pair
	//
	// "ctx" is the context for the request.
	// "req" holds the refresh token.
	//
	// Returns a token pair and an error if any.
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenResponse, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	BaseHandler
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/register", h.Register)
		r.Post("/token", h.Login)
		r.Post("/refresh", h.Refresh)
	})
}

// Register handles POST /auth/register
// @Summary Register
// @Description Create an account and receive a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account details"
// @Success 201 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to register user")
		return
	}

	h.RespondJSON(w, http.StatusCreated, tokens)
}

// Login handles POST /auth/token
// @Summary Login
// @Description Exchange e-mail and password for a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/token [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to log in")
		return
	}

	h.RespondJSON(w, http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to refresh tokens")
		return
	}

	h.RespondJSON(w, http.StatusOK, tokens)
}
