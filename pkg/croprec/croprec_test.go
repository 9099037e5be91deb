package croprec

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

func TestAssemble_FeatureOrder(t *testing.T) {
	soil := models.SoilData{PH: 6.5, Nitrogen: 40, Phosphor: 50, Potassium: 40}
	weather := models.WeatherStats{AvgTemp: 25, AvgHumidity: 60, TotalRainfall: 2}

	v, err := Assemble(soil, weather)
	require.NoError(t, err)

	assert.Equal(t, models.CropFeatureVector{40, 50, 40, 25, 60, 6.5, 2}, v)
}

func TestAssemble_RejectsNonFinite(t *testing.T) {
	weather := models.WeatherStats{}
	for name, soil := range map[string]models.SoilData{
		"nan ph":       {PH: math.NaN()},
		"inf nitrogen": {Nitrogen: math.Inf(1)},
		"-inf k":       {Potassium: math.Inf(-1)},
	} {
		_, err := Assemble(soil, weather)
		assert.Error(t, err, name)
	}
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.3, 0.6}))
	// Ties keep the first seen.
	assert.Equal(t, 0, ArgMax([]float64{0.5, 0.5}))
	assert.Equal(t, 0, ArgMax([]float64{0.9}))
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crop_model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArtifact(t *testing.T) {
	path := writeArtifact(t, `
means: [50, 53, 48, 25.6, 71.4, 6.4, 103.4]
scales: [36.9, 32.9, 50.6, 5.0, 22.2, 0.77, 54.9]
classes: [apple, banana, blackgram]
`)
	a, err := LoadArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, "banana", a.CropName(1))
	assert.Equal(t, UnknownCrop, a.CropName(3))
	assert.Equal(t, UnknownCrop, a.CropName(-1))
}

func TestLoadArtifact_Invalid(t *testing.T) {
	cases := map[string]string{
		"wrong scaler width": "means: [1]\nscales: [1]\nclasses: [a]\n",
		"zero scale":         "means: [0,0,0,0,0,0,0]\nscales: [1,1,1,0,1,1,1]\nclasses: [a]\n",
		"no classes":         "means: [0,0,0,0,0,0,0]\nscales: [1,1,1,1,1,1,1]\nclasses: []\n",
	}
	for name, content := range cases {
		_, err := LoadArtifact(writeArtifact(t, content))
		assert.Error(t, err, name)
	}
}

func TestTransform(t *testing.T) {
	a := &Artifact{
		Means:   []float64{1, 1, 1, 1, 1, 1, 1},
		Scales:  []float64{2, 2, 2, 2, 2, 2, 2},
		Classes: []string{"rice"},
	}
	got := a.Transform([FeatureCount]float64{3, 3, 3, 3, 3, 3, 3})
	assert.Equal(t, [FeatureCount]float64{1, 1, 1, 1, 1, 1, 1}, got)
}

func TestScoreClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/score", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"scores":[0.05,0.9,0.05]}`))
	}))
	defer server.Close()

	client := NewScoreClient(server.URL, 5*time.Second, zap.NewNop())
	scores, err := client.Score(context.Background(), [FeatureCount]float64{})
	require.NoError(t, err)
	assert.Equal(t, 1, ArgMax(scores))
}

func TestScoreClient_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewScoreClient(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Score(context.Background(), [FeatureCount]float64{})
	assert.Error(t, err)
}
