// Package croprec assembles soil and weather features and maps model
// scores to a recommended crop.
package croprec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnknownCrop is returned when the model reports a class index outside
// the trained class table.
const UnknownCrop = "Unknown Crop"

// Artifact holds the fitted preprocessing parameters and the class table
// exported alongside the trained model. Loading it is part of startup;
// a missing or malformed artifact is fatal.
type Artifact struct {
	// Means and Scales are the standard-scaler parameters, one per feature,
	// in feature-vector order.
	Means  []float64 `yaml:"means"`
	Scales []float64 `yaml:"scales"`
	// Classes maps model class index to crop name.
	Classes []string `yaml:"classes"`
}

// LoadArtifact reads and validates the model artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crop model artifact %q: %w", path, err)
	}

	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse crop model artifact %q: %w", path, err)
	}

	if len(a.Means) != FeatureCount || len(a.Scales) != FeatureCount {
		return nil, fmt.Errorf("crop model artifact must have %d scaler parameters, got means=%d scales=%d",
			FeatureCount, len(a.Means), len(a.Scales))
	}
	for i, s := range a.Scales {
		if s == 0 {
			return nil, fmt.Errorf("crop model artifact scale[%d] is zero", i)
		}
	}
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("crop model artifact has no classes")
	}

	return &a, nil
}

// Transform applies the fitted standard scaling to a feature vector.
func (a *Artifact) Transform(v [FeatureCount]float64) [FeatureCount]float64 {
	var scaled [FeatureCount]float64
	for i := range v {
		scaled[i] = (v[i] - a.Means[i]) / a.Scales[i]
	}
	return scaled
}

// CropName maps a class index to its crop name, or UnknownCrop when the
// index is out of range.
func (a *Artifact) CropName(classIndex int) string {
	if classIndex < 0 || classIndex >= len(a.Classes) {
		return UnknownCrop
	}
	return a.Classes[classIndex]
}
