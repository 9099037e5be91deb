package croprec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Scorer returns per-class scores for a scaled feature vector.
type Scorer interface {
	Score(ctx context.Context, features [FeatureCount]float64) ([]float64, error)
}

// ScoreClient calls the model-serving sidecar over HTTP.
type ScoreClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewScoreClient creates a scoring client for the given sidecar URL.
func NewScoreClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ScoreClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ScoreClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("crop-scorer"),
	}
}

var _ Scorer = (*ScoreClient)(nil)

type scoreRequest struct {
	Features []float64 `json:"features"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// Score posts the scaled feature vector and returns the per-class scores.
func (c *ScoreClient) Score(ctx context.Context, features [FeatureCount]float64) ([]float64, error) {
	body, err := json.Marshal(scoreRequest{Features: features[:]})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crop scorer returned status %d", resp.StatusCode)
	}

	var scored scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}
	if len(scored.Scores) == 0 {
		return nil, fmt.Errorf("crop scorer returned no scores")
	}

	c.logger.Debug("Scored feature vector",
		zap.Int("classes", len(scored.Scores)),
		zap.Duration("elapsed", time.Since(start)))

	return scored.Scores, nil
}
