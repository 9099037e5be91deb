package croprec

import (
	"fmt"
	"math"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// FeatureCount is the width of the model's input vector.
const FeatureCount = 7

// Assemble combines soil inputs and weather aggregates into the model's
// feature vector: (N, P, K, temperature, humidity, ph, rainfall). The order
// is load-bearing; it must match the training pipeline exactly.
// Pure function; all scalars must be finite.
func Assemble(soil models.SoilData, weather models.WeatherStats) (models.CropFeatureVector, error) {
	fields := map[string]float64{
		"nitrogen":    soil.Nitrogen,
		"phosphorous": soil.Phosphor,
		"potassium":   soil.Potassium,
		"ph":          soil.PH,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.CropFeatureVector{}, fmt.Errorf("%w: %s is not a finite number", apperrors.ErrValidation, name)
		}
	}

	return models.CropFeatureVector{
		soil.Nitrogen,
		soil.Phosphor,
		soil.Potassium,
		weather.AvgTemp,
		weather.AvgHumidity,
		soil.PH,
		weather.TotalRainfall,
	}, nil
}

// ArgMax returns the index of the highest score; ties keep the first seen.
func ArgMax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
