package weather

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// CacheStore holds per-city weather aggregates across process restarts.
// Keys are exact city strings (case-sensitive).
type CacheStore interface {
	Get(city string) (models.WeatherCacheEntry, bool)
	Put(city string, entry models.WeatherCacheEntry) error
}

// FileStore is a CacheStore persisted as a single JSON object keyed by city.
// Every Put rewrites the whole file synchronously so the cache survives
// restarts. Entries are never evicted.
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]models.WeatherCacheEntry
}

// NewFileStore loads the cache file if it exists. A missing file starts an
// empty cache; a corrupt file is an error so bad state is not silently kept.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]models.WeatherCacheEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read weather cache %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse weather cache %q: %w", path, err)
	}

	return s, nil
}

// Get returns the cached entry for city, if any. Freshness is the caller's
// concern.
func (s *FileStore) Get(city string) (models.WeatherCacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[city]
	return entry, ok
}

// Put overwrites the entry for city and persists the whole cache before
// returning.
func (s *FileStore) Put(city string, entry models.WeatherCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[city] = entry

	data, err := json.MarshalIndent(s.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal weather cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write weather cache %q: %w", s.path, err)
	}
	return nil
}

var _ CacheStore = (*FileStore)(nil)
