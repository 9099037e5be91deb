package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/reference"
	"github.com/agrisense-io/agrisense-engine/pkg/repositories"
)

// Inferrer runs the detection pipeline on a stored image.
type Inferrer interface {
	Infer(ctx context.Context, path string) models.DetectionResult
}

// DetectionService stores uploaded images, runs inference and persists
// successful detections.
type DetectionService interface {
	Detect(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*models.EnrichedDetection, string, error)
	History(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error)
	Available() bool
}

// detectionService implements DetectionService.
type detectionService struct {
	pipeline   Inferrer
	tables     *reference.Tables
	detRepo    repositories.DetectionRepository
	uploadsDir string
	maxBytes   int64
	available  bool
	logger     *zap.Logger
}

// NewDetectionService creates a new detection service with dependencies.
// available reflects the startup health probe of the detection model;
// when false, Detect fails fast with ErrFeatureUnavailable.
func NewDetectionService(
	pipeline Inferrer,
	tables *reference.Tables,
	detRepo repositories.DetectionRepository,
	uploadsDir string,
	maxBytes int64,
	available bool,
	logger *zap.Logger,
) DetectionService {
	return &detectionService{
		pipeline:   pipeline,
		tables:     tables,
		detRepo:    detRepo,
		uploadsDir: uploadsDir,
		maxBytes:   maxBytes,
		available:  available,
		logger:     logger,
	}
}

func (s *detectionService) Available() bool {
	return s.available
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// sanitizeUploadName strips any path components from a client filename and
// replaces every byte outside [A-Za-z0-9._-] with an underscore.
func sanitizeUploadName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Detect validates and stores the upload under a random name, runs the
// pipeline and enriches the result from the reference tables. The record
// is persisted only when inference succeeded; a failed result is still
// returned to the caller so the UI can show it. The second return value
// is the stored image URL path.
func (s *detectionService) Detect(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*models.EnrichedDetection, string, error) {
	if !s.available {
		return nil, "", apperrors.ErrFeatureUnavailable
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, "", fmt.Errorf("%w: unsupported image type %q", apperrors.ErrValidation, ext)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", apperrors.ErrValidation, s.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", apperrors.ErrValidation)
	}

	// Hex prefix makes stored names unique; the client filename is kept
	// for readability but reduced to a safe basename first.
	id := uuid.New()
	stored := hex.EncodeToString(id[:]) + "_" + sanitizeUploadName(filename)
	path := filepath.Join(s.uploadsDir, stored)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to store upload: %w", err)
	}

	result := s.pipeline.Infer(ctx, path)
	enriched := s.tables.Enrich(result)
	imageURL := "/uploads/" + stored

	if !result.Success {
		s.logger.Warn("Detection failed",
			zap.String("user_id", userID.String()),
			zap.String("image", stored))
		return &enriched, imageURL, nil
	}

	record := &models.DiseaseDetection{
		UserID:             userID,
		DiseaseName:        enriched.ReadableLabel,
		Confidence:         enriched.Confidence,
		Description:        enriched.Description,
		PossibleSteps:      enriched.PossibleSteps,
		ImageURL:           imageURL,
		SupplementName:     enriched.SupplementName,
		SupplementImageURL: enriched.SupplementImageURL,
		SupplementBuyURL:   enriched.SupplementBuyURL,
	}
	if err := s.detRepo.Save(ctx, record); err != nil {
		return nil, "", err
	}

	s.logger.Info("Detection recorded",
		zap.String("user_id", userID.String()),
		zap.String("disease", enriched.ReadableLabel),
		zap.Float64("confidence", enriched.Confidence))

	return &enriched, imageURL, nil
}

func (s *detectionService) History(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error) {
	return s.detRepo.GetByUser(ctx, userID)
}
