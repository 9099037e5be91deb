package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/croprec"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/repositories"
)

// WeatherStatsProvider yields aggregate weather stats for a city.
type WeatherStatsProvider interface {
	Stats(ctx context.Context, city string) models.WeatherStats
}

// RecommendationService produces and persists crop recommendations.
type RecommendationService interface {
	Recommend(ctx context.Context, userID uuid.UUID, city string, soil models.SoilData) (*models.CropRecommendation, error)
	History(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error)
}

// recommendationService implements RecommendationService.
type recommendationService struct {
	weather  WeatherStatsProvider
	artifact *croprec.Artifact
	scorer   croprec.Scorer
	cropRepo repositories.CropRepository
	logger   *zap.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies.
func NewRecommendationService(
	weather WeatherStatsProvider,
	artifact *croprec.Artifact,
	scorer croprec.Scorer,
	cropRepo repositories.CropRepository,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		weather:  weather,
		artifact: artifact,
		scorer:   scorer,
		cropRepo: cropRepo,
		logger:   logger,
	}
}

// Recommend aggregates weather for the city, assembles and scales the
// feature vector, scores it against the model and persists the result.
// A degraded weather fetch does not abort the request; the zero stats
// flow through and the record carries the Degraded flag.
func (s *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, city string, soil models.SoilData) (*models.CropRecommendation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", apperrors.ErrValidation)
	}

	stats := s.weather.Stats(ctx, city)
	if stats.Degraded {
		s.logger.Warn("Weather unavailable, recommending on soil data alone",
			zap.String("city", city))
	}

	features, err := croprec.Assemble(soil, stats)
	if err != nil {
		return nil, err
	}

	scores, err := s.scorer.Score(ctx, s.artifact.Transform(features))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInferenceFailed, err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: scorer returned no scores", apperrors.ErrInferenceFailed)
	}

	crop := s.artifact.CropName(croprec.ArgMax(scores))

	rec := &models.CropRecommendation{
		UserID:          userID,
		City:            city,
		Soil:            soil,
		Weather:         stats,
		RecommendedCrop: crop,
	}
	if err := s.cropRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Crop recommended",
		zap.String("user_id", userID.String()),
		zap.String("city", city),
		zap.String("crop", crop),
		zap.Bool("weather_degraded", stats.Degraded))

	return rec, nil
}

func (s *recommendationService) History(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error) {
	return s.cropRepo.GetByUser(ctx, userID)
}
