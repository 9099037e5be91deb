package weather

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// FreshnessWindow is how long a cached entry is usable without a refetch.
const FreshnessWindow = 24 * time.Hour

// Service answers per-city aggregate queries, consulting the cache first.
type Service struct {
	provider     Provider
	cache        CacheStore
	lookbackDays int
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a weather service with the given provider and cache.
func NewService(provider Provider, cache CacheStore, lookbackDays int, logger *zap.Logger) *Service {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	return &Service{
		provider:     provider,
		cache:        cache,
		lookbackDays: lookbackDays,
		logger:       logger.Named("weather"),
		now:          time.Now,
	}
}

// Stats returns aggregates for city: mean daily temperature and humidity,
// summed precipitation, over the trailing lookback window. A fresh cache
// entry short-circuits the provider call. When the provider fails the
// result is zero-valued with Degraded set, and nothing is cached, so a
// transient outage never poisons the cache.
func (s *Service) Stats(ctx context.Context, city string) models.WeatherStats {
	now := s.now()

	if entry, ok := s.cache.Get(city); ok && entry.Fresh(now, FreshnessWindow) {
		s.logger.Debug("Weather cache hit", zap.String("city", city))
		return entry.Stats()
	}

	days, err := s.provider.FetchDailyHistory(ctx, city, now.AddDate(0, 0, -s.lookbackDays), now)
	if err != nil {
		s.logger.Warn("Weather fetch failed, using degraded zero stats",
			zap.String("city", city),
			zap.Error(err))
		return models.WeatherStats{Degraded: true}
	}

	entry := aggregate(days, now)
	if err := s.cache.Put(city, entry); err != nil {
		// Serving the fresh aggregates matters more than the cache write.
		s.logger.Warn("Failed to persist weather cache entry",
			zap.String("city", city),
			zap.Error(err))
	}

	s.logger.Info("Fetched weather history",
		zap.String("city", city),
		zap.Int("days", len(days)),
		zap.Float64("avg_temp", entry.AvgTemp),
		zap.Float64("avg_humidity", entry.AvgHumidity),
		zap.Float64("total_rainfall", entry.TotalRainfall))

	return entry.Stats()
}

func aggregate(days []DailyObservation, fetchedAt time.Time) models.WeatherCacheEntry {
	var totalTemp, totalHumidity, totalRainfall float64
	for _, day := range days {
		totalTemp += day.Temp
		totalHumidity += day.Humidity
		totalRainfall += day.Precip
	}

	count := float64(len(days))
	return models.WeatherCacheEntry{
		AvgTemp:       totalTemp / count,
		AvgHumidity:   totalHumidity / count,
		TotalRainfall: totalRainfall,
		FetchedAt:     fetchedAt,
	}
}
