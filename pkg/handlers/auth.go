package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

// AuthHandler handles registration, browser sessions and API tokens.
type AuthHandler struct {
	users    services.UserService
	issuer   *auth.Issuer
	sessions *auth.SessionStore
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserService, issuer *auth.Issuer, sessions *auth.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		issuer:   issuer,
		sessions: sessions,
		logger:   logger.Named("auth"),
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("POST /api/login", h.APILogin)
	mux.HandleFunc("POST /api/refresh", h.APIRefresh)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles POST /register. New accounts default to the farmer
// role; the admin role cannot be claimed through this endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.Role == models.RoleAdmin {
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "Cannot self-register as admin")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /login for browser clients, setting a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		ServiceError(w, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID, user.Role); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to establish session")
		return
	}

	_ = WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /logout, expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to clear session")
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type tokenResponse struct {
	auth.TokenPair
	User *models.User `json:"user"`
}

// APILogin handles POST /api/login, returning a JWT access/refresh pair.
func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		ServiceError(w, err)
		return
	}

	pair, err := h.issuer.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("Failed to issue tokens", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to issue tokens")
		return
	}

	_ = WriteJSON(w, http.StatusOK, tokenResponse{TokenPair: pair, User: user})
}

// APIRefresh handles POST /api/refresh, exchanging a valid refresh token
// for a fresh access token. Role and email are re-read from the database
// so a revoked or retitled account does not keep its old claims.
func (h *AuthHandler) APIRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	claims, err := h.issuer.Verify(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired refresh token")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	access, err := h.issuer.IssueAccess(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("Failed to issue access token", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"access_token": access})
}
