package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrisense-io/agrisense-engine/pkg/database"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// DetectionRepository provides data access for disease detection records.
// Records are append-only.
type DetectionRepository interface {
	Save(ctx context.Context, det *models.DiseaseDetection) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error)
	GetAll(ctx context.Context) ([]*models.DiseaseDetection, error)
}

type detectionRepository struct {
	db *database.DB
}

// NewDetectionRepository creates a new disease detection repository.
func NewDetectionRepository(db *database.DB) DetectionRepository {
	return &detectionRepository{db: db}
}

var _ DetectionRepository = (*detectionRepository)(nil)

func (r *detectionRepository) Save(ctx context.Context, det *models.DiseaseDetection) error {
	if det.ID == uuid.Nil {
		det.ID = uuid.New()
	}
	det.CreatedAt = time.Now()

	query := `
		INSERT INTO disease_detections (
			id, user_id, disease_name, confidence, disease_description, possible_steps,
			disease_image_url, supplement_name, supplement_image_url, supplement_buy_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		det.ID,
		det.UserID,
		det.DiseaseName,
		det.Confidence,
		det.Description,
		det.PossibleSteps,
		det.ImageURL,
		det.SupplementName,
		det.SupplementImageURL,
		det.SupplementBuyURL,
		det.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save disease detection: %w", err)
	}

	return nil
}

// GetByUser returns a user's detections, newest first.
func (r *detectionRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error) {
	query := `
		SELECT d.id, d.user_id, '', d.disease_name, d.confidence, d.disease_description, d.possible_steps,
			d.disease_image_url, d.supplement_name, d.supplement_image_url, d.supplement_buy_url, d.created_at
		FROM disease_detections d
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC`

	return r.query(ctx, query, userID)
}

// GetAll returns every detection with the owning user's name joined in,
// newest first. Admin-only surface.
func (r *detectionRepository) GetAll(ctx context.Context) ([]*models.DiseaseDetection, error) {
	query := `
		SELECT d.id, d.user_id, u.name, d.disease_name, d.confidence, d.disease_description, d.possible_steps,
			d.disease_image_url, d.supplement_name, d.supplement_image_url, d.supplement_buy_url, d.created_at
		FROM disease_detections d
		JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at DESC`

	return r.query(ctx, query)
}

func (r *detectionRepository) query(ctx context.Context, query string, args ...any) ([]*models.DiseaseDetection, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get disease detections: %w", err)
	}
	defer rows.Close()

	var dets []*models.DiseaseDetection
	for rows.Next() {
		var det models.DiseaseDetection
		if err := rows.Scan(
			&det.ID,
			&det.UserID,
			&det.UserName,
			&det.DiseaseName,
			&det.Confidence,
			&det.Description,
			&det.PossibleSteps,
			&det.ImageURL,
			&det.SupplementName,
			&det.SupplementImageURL,
			&det.SupplementBuyURL,
			&det.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan disease detection: %w", err)
		}
		dets = append(dets, &det)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating disease detections: %w", err)
	}

	return dets, nil
}
