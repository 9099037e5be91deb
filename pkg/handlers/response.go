package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps service layer sentinel errors onto HTTP responses.
// Unknown errors become an opaque 500 so internals never leak to clients.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, apperrors.ErrEmailTaken):
		_ = ErrorResponse(w, http.StatusConflict, "email_taken", "An account with this email already exists")
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrForbidden):
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
	case errors.Is(err, apperrors.ErrFeatureUnavailable):
		_ = ErrorResponse(w, http.StatusServiceUnavailable, "feature_unavailable", "This feature is temporarily unavailable")
	case errors.Is(err, apperrors.ErrInferenceFailed):
		_ = ErrorResponse(w, http.StatusBadGateway, "inference_failed", "The model service could not score the request")
	case errors.Is(err, apperrors.ErrUpstreamDegraded):
		_ = ErrorResponse(w, http.StatusBadGateway, "upstream_degraded", "An upstream service is unavailable")
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
