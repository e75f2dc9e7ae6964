package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	in := &Config{
		Easee:  EaseeConfig{Username: "user@example.com", AccessToken: "tok"},
		Prices: PriceConfig{Enabled: true, Zone: "NO3", CacheDir: "cache"},
		MQTT:   MQTTConfig{Enabled: true, Broker: "localhost:1883"},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, "NO1", cfg.Prices.GetZone())
	assert.Equal(t, "price_cache", cfg.Prices.GetCacheDir())
	assert.Equal(t, 10*time.Second, cfg.Prices.GetDayTimeout())
	assert.Equal(t, 30*time.Second, cfg.Easee.GetTimeout())
	assert.Equal(t, ":8080", cfg.Server.GetAddress())

	cfg.Prices.Zone = "NO4"
	cfg.Prices.DayTimeoutSecs = 3
	assert.Equal(t, "NO4", cfg.Prices.GetZone())
	assert.Equal(t, 3*time.Second, cfg.Prices.GetDayTimeout())
}
