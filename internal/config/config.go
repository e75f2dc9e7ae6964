package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Easee         EaseeConfig  `yaml:"easee"`
	Prices        PriceConfig  `yaml:"prices"`
	Server        ServerConfig `yaml:"server,omitempty"`
	MQTT          MQTTConfig   `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig     `yaml:"home_assistant,omitempty"`
}

// EaseeConfig holds charging-provider credentials and the stored token
type EaseeConfig struct {
	BaseURL     string `yaml:"base_url,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`
	TimeoutSecs int    `yaml:"timeout_seconds,omitempty"`
}

// PriceConfig holds spot price feed settings
type PriceConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url,omitempty"`
	Zone           string `yaml:"zone,omitempty"`      // default price zone (NO1-NO5)
	CacheDir       string `yaml:"cache_dir,omitempty"` // one file per day fragment
	DayTimeoutSecs int    `yaml:"day_timeout_seconds,omitempty"`
}

// ServerConfig holds the report API settings
type ServerConfig struct {
	Address string `yaml:"address,omitempty"` // e.g., ":8080"
}

// MQTTConfig holds MQTT broker settings for publishing readings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.charger_energy_cost"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetTimeout returns the provider request timeout with a default of 30s
func (c *EaseeConfig) GetTimeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GetZone returns the configured default price zone, falling back to NO1
func (c *PriceConfig) GetZone() string {
	if c.Zone == "" {
		return "NO1"
	}
	return c.Zone
}

// GetCacheDir returns the price fragment cache directory
func (c *PriceConfig) GetCacheDir() string {
	if c.CacheDir == "" {
		return "price_cache"
	}
	return c.CacheDir
}

// GetDayTimeout returns the per-day fetch timeout with a default of 10s
func (c *PriceConfig) GetDayTimeout() time.Duration {
	if c.DayTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.DayTimeoutSecs) * time.Second
}

// GetAddress returns the server listen address with a default of :8080
func (c *ServerConfig) GetAddress() string {
	if c.Address == "" {
		return ":8080"
	}
	return c.Address
}
