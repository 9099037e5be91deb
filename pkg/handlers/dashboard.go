package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

// DashboardHandler handles the farmer and admin dashboard endpoints.
type DashboardHandler struct {
	dashboards services.DashboardService
	users      services.UserService
	logger     *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards services.DashboardService, users services.UserService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		users:      users,
		logger:     logger.Named("dashboard"),
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	requireAdmin := authMiddleware.RequireRole(models.RoleAdmin)

	mux.HandleFunc("GET /api/dashboard", authMiddleware.RequireToken(h.UserDashboard))
	mux.HandleFunc("GET /api/admin/dashboard", authMiddleware.RequireToken(requireAdmin(h.AdminDashboard)))
	mux.HandleFunc("GET /api/admin/users", authMiddleware.RequireToken(requireAdmin(h.Users)))
}

// UserDashboard handles GET /api/dashboard, returning the caller's own records.
func (h *DashboardHandler) UserDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	dash, err := h.dashboards.ForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build user dashboard", zap.Error(err))
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, dash)
}

// AdminDashboard handles GET /api/admin/dashboard, returning all records
// with per-crop and per-disease counts.
func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.dashboards.ForAdmin(r.Context())
	if err != nil {
		h.logger.Error("Failed to build admin dashboard", zap.Error(err))
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, dash)
}

// Users handles GET /api/admin/users.
func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	_ = WriteJSON(w, http.StatusOK, users)
}
