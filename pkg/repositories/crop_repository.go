package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrisense-io/agrisense-engine/pkg/database"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// CropRepository provides data access for crop recommendation records.
// Records are append-only; there are no update or delete operations.
type CropRepository interface {
	Save(ctx context.Context, rec *models.CropRecommendation) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error)
	GetAll(ctx context.Context) ([]*models.CropRecommendation, error)
}

type cropRepository struct {
	db *database.DB
}

// NewCropRepository creates a new crop recommendation repository.
func NewCropRepository(db *database.DB) CropRepository {
	return &cropRepository{db: db}
}

var _ CropRepository = (*cropRepository)(nil)

func (r *cropRepository) Save(ctx context.Context, rec *models.CropRecommendation) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	soilJSON, err := json.Marshal(rec.Soil)
	if err != nil {
		return fmt.Errorf("failed to marshal soil data: %w", err)
	}
	weatherJSON, err := json.Marshal(rec.Weather)
	if err != nil {
		return fmt.Errorf("failed to marshal weather data: %w", err)
	}

	query := `
		INSERT INTO crop_recommendations (id, user_id, city, soil_data, weather_data, recommended_crop, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		rec.ID,
		rec.UserID,
		rec.City,
		soilJSON,
		weatherJSON,
		rec.RecommendedCrop,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save crop recommendation: %w", err)
	}

	return nil
}

// GetByUser returns a user's recommendations, newest first.
func (r *cropRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error) {
	query := `
		SELECT c.id, c.user_id, '', c.city, c.soil_data, c.weather_data, c.recommended_crop, c.created_at
		FROM crop_recommendations c
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`

	return r.query(ctx, query, userID)
}

// GetAll returns every recommendation with the owning user's name joined
// in, newest first. Admin-only surface.
func (r *cropRepository) GetAll(ctx context.Context) ([]*models.CropRecommendation, error) {
	query := `
		SELECT c.id, c.user_id, u.name, c.city, c.soil_data, c.weather_data, c.recommended_crop, c.created_at
		FROM crop_recommendations c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC`

	return r.query(ctx, query)
}

func (r *cropRepository) query(ctx context.Context, query string, args ...any) ([]*models.CropRecommendation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get crop recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.CropRecommendation
	for rows.Next() {
		var rec models.CropRecommendation
		var soilJSON, weatherJSON []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.UserName,
			&rec.City,
			&soilJSON,
			&weatherJSON,
			&rec.RecommendedCrop,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crop recommendation: %w", err)
		}
		if err := json.Unmarshal(soilJSON, &rec.Soil); err != nil {
			return nil, fmt.Errorf("failed to unmarshal soil data: %w", err)
		}
		if err := json.Unmarshal(weatherJSON, &rec.Weather); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weather data: %w", err)
		}
		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crop recommendations: %w", err)
	}

	return recs, nil
}
