// Package weather fetches and caches per-city weather aggregates used by
// the crop recommendation model.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DailyObservation is one day of provider data. Missing fields decode to zero,
// matching how the provider omits unavailable measurements.
type DailyObservation struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Precip   float64 `json:"precip"`
}

type timelineResponse struct {
	Days []DailyObservation `json:"days"`
}

// Provider fetches daily weather history for a city.
type Provider interface {
	FetchDailyHistory(ctx context.Context, city string, from, to time.Time) ([]DailyObservation, error)
}

// Client talks to the Visual Crossing timeline API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a weather provider client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("weather"),
	}
}

var _ Provider = (*Client)(nil)

// FetchDailyHistory fetches metric daily observations for the given date range.
// A non-200 response or a body without days is an error; callers decide how to
// degrade.
func (c *Client) FetchDailyHistory(ctx context.Context, city string, from, to time.Time) ([]DailyObservation, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		c.baseURL,
		url.PathEscape(city),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)
	q := url.Values{}
	q.Set("unitGroup", "metric")
	q.Set("include", "days")
	q.Set("key", c.apiKey)
	q.Set("contentType", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	c.logger.Debug("Fetching weather history",
		zap.String("city", city),
		zap.String("from", from.Format("2006-01-02")),
		zap.String("to", to.Format("2006-01-02")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("weather provider returned status %d: %s", resp.StatusCode, body)
	}

	var timeline timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(timeline.Days) == 0 {
		return nil, fmt.Errorf("weather response for %q has no days", city)
	}

	return timeline.Days, nil
}
