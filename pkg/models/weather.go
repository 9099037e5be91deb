package models

import "time"

// WeatherStats holds per-city aggregates over the lookback window.
// Degraded is set when the provider could not be reached and the zero
// values are a fallback rather than real observations.
type WeatherStats struct {
	AvgTemp       float64 `json:"temperature"`
	AvgHumidity   float64 `json:"humidity"`
	TotalRainfall float64 `json:"rainfall"`
	Degraded      bool    `json:"degraded,omitempty"`
}

// WeatherCacheEntry is the persisted form of a successful fetch.
// An entry is usable without refetch while now - FetchedAt < 24h.
type WeatherCacheEntry struct {
	AvgTemp       float64   `json:"avg_temp"`
	AvgHumidity   float64   `json:"avg_humidity"`
	TotalRainfall float64   `json:"total_rainfall"`
	FetchedAt     time.Time `json:"timestamp"`
}

// Fresh reports whether the entry is still within the freshness window.
func (e WeatherCacheEntry) Fresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.FetchedAt) < window
}

// Stats converts a cache entry to the aggregate form returned to callers.
func (e WeatherCacheEntry) Stats() WeatherStats {
	return WeatherStats{
		AvgTemp:       e.AvgTemp,
		AvgHumidity:   e.AvgHumidity,
		TotalRainfall: e.TotalRainfall,
	}
}
