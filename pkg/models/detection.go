package models

import (
	"time"

	"github.com/google/uuid"
)

// Detection is one bounding box returned by the detection model.
// Confidence is in [0,1]; Box is [x1, y1, x2, y2] in pixels.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
	Box        [4]int  `json:"box"`
}

// DetectionResult is the outcome of running inference on one image.
// Confidence is scaled to [0,100] for display. When the model returns no
// detections the pipeline reports Healthy at 100.0 rather than failing.
type DetectionResult struct {
	Label         string  `json:"class"`
	ReadableLabel string  `json:"readable_class"`
	Confidence    float64 `json:"confidence"`
	Success       bool    `json:"success"`
}

// EnrichedDetection joins a DetectionResult with the static reference
// tables. All enrichment fields are nil when no reference row matches.
type EnrichedDetection struct {
	DetectionResult
	Description        *string `json:"description"`
	PossibleSteps      *string `json:"possible_steps"`
	SupplementName     *string `json:"supplement_name"`
	SupplementImageURL *string `json:"supplement_image_url"`
	SupplementBuyURL   *string `json:"supplement_buy_url"`
}

// DiseaseDetection is one persisted detection record. Append-only.
type DiseaseDetection struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	UserName           string    `json:"user_name,omitempty"`
	DiseaseName        string    `json:"disease_name"`
	Confidence         float64   `json:"confidence"`
	Description        *string   `json:"disease_description"`
	PossibleSteps      *string   `json:"possible_steps"`
	ImageURL           string    `json:"disease_image_url"`
	SupplementName     *string   `json:"supplement_name"`
	SupplementImageURL *string   `json:"supplement_image_url"`
	SupplementBuyURL   *string   `json:"supplement_buy_url"`
	CreatedAt          time.Time `json:"created_at"`
}
