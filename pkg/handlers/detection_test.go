package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

func multipartImage(t *testing.T, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestDetectionHandler_Detect(t *testing.T) {
	issuer, _, mw := testAuth(t)
	desc := "Fungal disease"
	svc := &mockDetectionService{
		result: &models.EnrichedDetection{
			DetectionResult: models.DetectionResult{
				Label:         "Tomato_early_blight",
				ReadableLabel: "Tomato Early Blight",
				Confidence:    87.5,
				Success:       true,
			},
			Description: &desc,
		},
		imageURL:  "/uploads/abc123.jpg",
		available: true,
	}
	handler := NewDetectionHandler(svc, 1<<20, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, mw)

	body, contentType := multipartImage(t, "leaf.jpg", []byte("fake-image"))
	req := httptest.NewRequest(http.MethodPost, "/api/diseases/detect", body)
	req.Header.Set("Content-Type", contentType)
	authorize(t, req, issuer, uuid.New(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.filename != "leaf.jpg" || string(svc.data) != "fake-image" {
		t.Errorf("service got filename=%q data=%q", svc.filename, svc.data)
	}

	var resp struct {
		Result   *models.EnrichedDetection `json:"result"`
		ImageURL string                    `json:"image_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ImageURL != "/uploads/abc123.jpg" {
		t.Errorf("image_url = %q", resp.ImageURL)
	}
	if resp.Result.ReadableLabel != "Tomato Early Blight" {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestDetectionHandler_Detect_MissingImage(t *testing.T) {
	issuer, _, mw := testAuth(t)
	handler := NewDetectionHandler(&mockDetectionService{available: true}, 1<<20, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, mw)

	req := httptest.NewRequest(http.MethodPost, "/api/diseases/detect", nil)
	authorize(t, req, issuer, uuid.New(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetectionHandler_Detect_FeatureUnavailable(t *testing.T) {
	issuer, _, mw := testAuth(t)
	svc := &mockDetectionService{err: apperrors.ErrFeatureUnavailable}
	handler := NewDetectionHandler(svc, 1<<20, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, mw)

	body, contentType := multipartImage(t, "leaf.jpg", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/diseases/detect", body)
	req.Header.Set("Content-Type", contentType)
	authorize(t, req, issuer, uuid.New(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
