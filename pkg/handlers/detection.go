package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

// DetectionHandler handles disease detection endpoints.
type DetectionHandler struct {
	detections services.DetectionService
	maxBytes   int64
	logger     *zap.Logger
}

// NewDetectionHandler creates a new DetectionHandler. maxBytes caps the
// multipart form size accepted before the service's own validation runs.
func NewDetectionHandler(detections services.DetectionService, maxBytes int64, logger *zap.Logger) *DetectionHandler {
	return &DetectionHandler{
		detections: detections,
		maxBytes:   maxBytes,
		logger:     logger.Named("detection"),
	}
}

// RegisterRoutes registers the detection handler's routes on the given mux.
func (h *DetectionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/diseases/detect", authMiddleware.RequireToken(h.Detect))
	mux.HandleFunc("GET /api/diseases/history", authMiddleware.RequireToken(h.History))
}

type detectResponse struct {
	Result   *models.EnrichedDetection `json:"result"`
	ImageURL string                    `json:"image_url"`
}

// Detect handles POST /api/diseases/detect. The image comes in as the
// "image" part of a multipart form.
func (h *DetectionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = ErrorResponse(w, http.StatusRequestEntityTooLarge, "too_large", "Image exceeds the upload limit")
			return
		}
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Missing image upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to read upload")
		return
	}

	result, imageURL, err := h.detections.Detect(r.Context(), userID, header.Filename, data)
	if err != nil {
		h.logger.Warn("Detection request failed", zap.Error(err))
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, detectResponse{Result: result, ImageURL: imageURL})
}

// History handles GET /api/diseases/history.
func (h *DetectionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	dets, err := h.detections.History(r.Context(), userID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if dets == nil {
		dets = []*models.DiseaseDetection{}
	}

	_ = WriteJSON(w, http.StatusOK, dets)
}
