package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/reference"
)

func testTables(t *testing.T) *reference.Tables {
	t.Helper()
	dir := t.TempDir()

	diseasePath := filepath.Join(dir, "disease_info.csv")
	if err := os.WriteFile(diseasePath, []byte(
		"disease_name,description,possible_steps\n"+
			"Tomato Early Blight,Fungal disease of tomato foliage,Remove affected leaves\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	supplementPath := filepath.Join(dir, "supplement_info.csv")
	if err := os.WriteFile(supplementPath, []byte(
		"disease_name,supplement_name,supplement_image,buy_link\n"+
			"Tomato Early Blight,Copper Fungicide,http://img.example/cf.jpg,http://shop.example/cf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := reference.Load(diseasePath, supplementPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tables
}

func newDetectionService(t *testing.T, inferrer Inferrer, repo *mockDetectionRepo, available bool) DetectionService {
	t.Helper()
	return NewDetectionService(inferrer, testTables(t), repo, t.TempDir(), 1<<20, available, zap.NewNop())
}

func TestDetectionService_Detect(t *testing.T) {
	inferrer := &mockInferrer{result: models.DetectionResult{
		Label:         "Tomato_early_blight",
		ReadableLabel: "Tomato Early Blight",
		Confidence:    87.5,
		Success:       true,
	}}
	repo := &mockDetectionRepo{}
	svc := newDetectionService(t, inferrer, repo, true)

	userID := uuid.New()
	enriched, imageURL, err := svc.Detect(context.Background(), userID, "leaf.jpg", []byte("fake-image"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if !strings.HasPrefix(imageURL, "/uploads/") || !strings.HasSuffix(imageURL, ".jpg") {
		t.Errorf("imageURL = %q", imageURL)
	}
	if enriched.Description == nil || *enriched.Description != "Fungal disease of tomato foliage" {
		t.Errorf("description = %v", enriched.Description)
	}
	if enriched.SupplementName == nil || *enriched.SupplementName != "Copper Fungicide" {
		t.Errorf("supplement = %v", enriched.SupplementName)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.UserID != userID || rec.DiseaseName != "Tomato Early Blight" || rec.Confidence != 87.5 {
		t.Errorf("record = %+v", rec)
	}
	if rec.ImageURL != imageURL {
		t.Errorf("record image URL = %q, want %q", rec.ImageURL, imageURL)
	}

	// The upload must land on disk under the random name the pipeline saw.
	if len(inferrer.paths) != 1 {
		t.Fatalf("pipeline ran %d times, want 1", len(inferrer.paths))
	}
	data, err := os.ReadFile(inferrer.paths[0])
	if err != nil {
		t.Fatalf("stored upload: %v", err)
	}
	if string(data) != "fake-image" {
		t.Errorf("stored bytes = %q", data)
	}
	if !storedNamePattern.MatchString(filepath.Base(inferrer.paths[0])) {
		t.Errorf("stored name = %q, want hex prefix plus original name", inferrer.paths[0])
	}
}

var storedNamePattern = regexp.MustCompile(`^[0-9a-f]{32}_leaf\.jpg$`)

func TestDetectionService_SanitizesStoredName(t *testing.T) {
	inferrer := &mockInferrer{result: models.DetectionResult{
		Label:         "Tomato_early_blight",
		ReadableLabel: "Tomato Early Blight",
		Confidence:    90,
		Success:       true,
	}}
	svc := newDetectionService(t, inferrer, &mockDetectionRepo{}, true)

	_, _, err := svc.Detect(context.Background(), uuid.New(), `../up dir\my leaf.jpg`, []byte("x"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// Path components are stripped and unsafe bytes become underscores, so
	// the upload always lands flat inside the uploads directory.
	name := filepath.Base(inferrer.paths[0])
	if !strings.HasSuffix(name, "_my_leaf.jpg") {
		t.Errorf("stored name = %q", name)
	}
	if strings.ContainsAny(name, `/\ `) {
		t.Errorf("stored name %q keeps unsafe bytes", name)
	}
}

func TestDetectionService_FailedInferenceNotPersisted(t *testing.T) {
	inferrer := &mockInferrer{result: models.DetectionResult{
		Label:         "Error",
		ReadableLabel: "Prediction failed",
		Confidence:    0,
		Success:       false,
	}}
	repo := &mockDetectionRepo{}
	svc := newDetectionService(t, inferrer, repo, true)

	enriched, _, err := svc.Detect(context.Background(), uuid.New(), "leaf.png", []byte("x"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if enriched.Success {
		t.Error("result should report failure")
	}
	if len(repo.saved) != 0 {
		t.Error("failed result must not be persisted")
	}
}

func TestDetectionService_Unavailable(t *testing.T) {
	svc := newDetectionService(t, &mockInferrer{}, &mockDetectionRepo{}, false)

	_, _, err := svc.Detect(context.Background(), uuid.New(), "leaf.jpg", []byte("x"))
	if !errors.Is(err, apperrors.ErrFeatureUnavailable) {
		t.Errorf("err = %v, want ErrFeatureUnavailable", err)
	}
}

func TestDetectionService_RejectsBadUploads(t *testing.T) {
	svc := NewDetectionService(&mockInferrer{}, testTables(t), &mockDetectionRepo{}, t.TempDir(), 4, true, zap.NewNop())

	cases := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"unsupported extension", "report.pdf", []byte("x")},
		{"no extension", "leaf", []byte("x")},
		{"too large", "leaf.jpg", []byte("12345")},
		{"empty", "leaf.jpg", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Detect(context.Background(), uuid.New(), tc.filename, tc.data)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}
