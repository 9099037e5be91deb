// Package detector is the HTTP client for the plant disease detection
// model service. The model itself is a black box; this package only
// speaks its request/response contract.
package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// Detector runs the detection model on raw image bytes.
type Detector interface {
	Detect(ctx context.Context, image []byte) (*Result, error)
}

// Result holds the model's detections and its class-id to name mapping.
type Result struct {
	Detections []models.Detection `json:"detections"`
	ClassNames map[int]string     `json:"class_names"`
}

// Client talks to the detection model service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a detection model client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("detector"),
	}
}

var _ Detector = (*Client)(nil)

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Detections []models.Detection `json:"detections"`
	ClassNames map[string]string  `json:"class_names"`
	Status     string             `json:"status"`
}

// Detect sends the image as base64 JSON and returns the model's detections.
// Zero detections is a valid result, not an error.
func (c *Client) Detect(ctx context.Context, image []byte) (*Result, error) {
	body, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending image to detector", zap.Int("bytes", len(image)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode detect response: %w", err)
	}
	if decoded.Status != "" && decoded.Status != "ok" {
		return nil, fmt.Errorf("detector returned status %q", decoded.Status)
	}

	classNames := make(map[int]string, len(decoded.ClassNames))
	for id, name := range decoded.ClassNames {
		var classID int
		if _, err := fmt.Sscanf(id, "%d", &classID); err != nil {
			return nil, fmt.Errorf("detector returned non-numeric class id %q", id)
		}
		classNames[classID] = name
	}

	c.logger.Debug("Detector responded",
		zap.Int("detections", len(decoded.Detections)),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Detections: decoded.Detections, ClassNames: classNames}, nil
}

// Healthy probes the detector's health endpoint. Used at startup so a
// missing model marks the feature unavailable instead of failing requests.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("detector health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector health returned status %d", resp.StatusCode)
	}
	return nil
}
