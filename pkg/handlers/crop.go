package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

// currentUserID extracts the authenticated user's ID from the request
// context populated by the auth middleware.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CropHandler handles crop recommendation endpoints.
type CropHandler struct {
	recs   services.RecommendationService
	logger *zap.Logger
}

// NewCropHandler creates a new CropHandler.
func NewCropHandler(recs services.RecommendationService, logger *zap.Logger) *CropHandler {
	return &CropHandler{recs: recs, logger: logger.Named("crop")}
}

// RegisterRoutes registers the crop handler's routes on the given mux.
func (h *CropHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/crops/recommend", authMiddleware.RequireToken(h.Recommend))
	mux.HandleFunc("GET /api/crops/history", authMiddleware.RequireToken(h.History))
}

type recommendRequest struct {
	City string          `json:"city"`
	Soil models.SoilData `json:"soil"`
}

// Recommend handles POST /api/crops/recommend.
func (h *CropHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	rec, err := h.recs.Recommend(r.Context(), userID, req.City, req.Soil)
	if err != nil {
		h.logger.Warn("Recommendation failed", zap.Error(err))
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, rec)
}

// History handles GET /api/crops/history.
func (h *CropHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	recs, err := h.recs.History(r.Context(), userID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if recs == nil {
		recs = []*models.CropRecommendation{}
	}

	_ = WriteJSON(w, http.StatusOK, recs)
}
