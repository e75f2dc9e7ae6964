package spot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargecost/pkg/models"
)

type countingFetcher struct {
	entries []models.PriceEntry
	err     error
	calls   int
}

func (f *countingFetcher) FetchDay(ctx context.Context, year, month, day int, zone string) ([]models.PriceEntry, error) {
	f.calls++
	return f.entries, f.err
}

func TestFileCacheReadThrough(t *testing.T) {
	next := &countingFetcher{entries: []models.PriceEntry{
		{TimeStart: "2024-01-02T00:00:00+01:00", PricePerKWh: 0.42},
	}}
	cache, err := NewFileCache(t.TempDir(), next)
	require.NoError(t, err)

	first, err := cache.FetchDay(context.Background(), 2024, 1, 2, "NO1")
	require.NoError(t, err)
	assert.Equal(t, next.entries, first)
	assert.Equal(t, 1, next.calls)

	// One file per (year, month, day, zone).
	_, err = os.Stat(filepath.Join(cache.Dir, "2024-01-02_NO1.json"))
	require.NoError(t, err)

	// Second fetch is served from disk, not the upstream.
	second, err := cache.FetchDay(context.Background(), 2024, 1, 2, "NO1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
}

func TestFileCacheDistinctZones(t *testing.T) {
	next := &countingFetcher{entries: []models.PriceEntry{}}
	cache, err := NewFileCache(t.TempDir(), next)
	require.NoError(t, err)

	_, err = cache.FetchDay(context.Background(), 2024, 1, 2, "NO1")
	require.NoError(t, err)
	_, err = cache.FetchDay(context.Background(), 2024, 1, 2, "NO2")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestFileCacheFailureNotCached(t *testing.T) {
	next := &countingFetcher{err: errors.New("feed down")}
	cache, err := NewFileCache(t.TempDir(), next)
	require.NoError(t, err)

	_, err = cache.FetchDay(context.Background(), 2024, 1, 2, "NO1")
	require.Error(t, err)

	entries, _ := os.ReadDir(cache.Dir)
	assert.Empty(t, entries)
}

func TestFileCacheIgnoresCorruptFile(t *testing.T) {
	next := &countingFetcher{entries: []models.PriceEntry{
		{TimeStart: "2024-01-02T00:00:00+01:00", PricePerKWh: 0.42},
	}}
	cache, err := NewFileCache(t.TempDir(), next)
	require.NoError(t, err)

	path := filepath.Join(cache.Dir, "2024-01-02_NO1.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	entries, err := cache.FetchDay(context.Background(), 2024, 1, 2, "NO1")
	require.NoError(t, err)
	assert.Equal(t, next.entries, entries)
	assert.Equal(t, 1, next.calls)
}
