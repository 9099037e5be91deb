package models

import (
	"time"

	"github.com/google/uuid"
)

// CropFeatureVector is the ordered input to the recommendation model:
// (N, P, K, temperature, humidity, ph, rainfall). The order must match
// what the model was trained on; reordering silently corrupts predictions.
type CropFeatureVector [7]float64

// SoilData is the user-submitted part of a recommendation request.
type SoilData struct {
	PH        float64 `json:"ph"`
	Nitrogen  float64 `json:"nitrogen"`
	Phosphor  float64 `json:"phosphorous"`
	Potassium float64 `json:"potassium"`
}

// CropRecommendation is one persisted recommendation. Append-only.
type CropRecommendation struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	UserName        string       `json:"user_name,omitempty"`
	City            string       `json:"city"`
	Soil            SoilData     `json:"soil_data"`
	Weather         WeatherStats `json:"weather_data"`
	RecommendedCrop string       `json:"recommended_crop"`
	CreatedAt       time.Time    `json:"created_at"`
}
