package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"chargecost/pkg/models"
)

// FileCache wraps a DayFetcher with a read-through disk cache: one JSON file
// per (year, month, day, zone). Price data for a past day never changes, so
// cached fragments are kept indefinitely.
type FileCache struct {
	Dir  string
	Next DayFetcher

	log *logrus.Entry
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, next DayFetcher) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileCache{
		Dir:  dir,
		Next: next,
		log:  logrus.WithField("component", "spot-cache"),
	}, nil
}

// FetchDay returns the cached fragment when present, otherwise fetches from
// the underlying source and writes the fragment before returning it. A fetch
// failure is returned without poisoning the cache.
func (c *FileCache) FetchDay(ctx context.Context, year, month, day int, zone string) ([]models.PriceEntry, error) {
	path := c.fragmentPath(year, month, day, zone)

	if data, err := os.ReadFile(path); err == nil {
		var entries []models.PriceEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
		// corrupt cache file falls through to a fresh fetch
		c.log.Warnf("ignoring unreadable cache file %s", path)
	}

	entries, err := c.Next.FetchDay(ctx, year, month, day, zone)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if werr := os.WriteFile(path, data, 0644); werr != nil {
			c.log.WithError(werr).Warnf("could not write cache file %s", path)
		}
	}

	return entries, nil
}

func (c *FileCache) fragmentPath(year, month, day int, zone string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%04d-%02d-%02d_%s.json", year, month, day, zone))
}
