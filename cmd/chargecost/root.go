package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chargecost/internal/config"
	"chargecost/internal/database"
	"chargecost/internal/easee"
	"chargecost/internal/spot"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "chargecost",
	Short: "Reconcile EV charger consumption against day-ahead spot prices",
	Long: `ChargeCost is a CLI tool to fetch hourly EV charger consumption, join it
against Nord Pool day-ahead spot prices, and produce monthly cost reports.
Reconciled hours are stored in a local SQLite database and can be published
to MQTT or Home Assistant.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newEaseeClient builds a provider client from config
func newEaseeClient(cfg *config.Config) *easee.Client {
	return easee.NewClient(cfg.Easee.BaseURL, cfg.Easee.GetTimeout())
}

// newPriceBuilder builds a month-table builder from config, wrapping the
// feed client in a file cache so price fragments are only fetched once
func newPriceBuilder(cfg *config.Config) (*spot.Builder, error) {
	client := spot.NewClient(cfg.Prices.BaseURL, cfg.Easee.GetTimeout())

	cache, err := spot.NewFileCache(cfg.Prices.GetCacheDir(), client)
	if err != nil {
		return nil, fmt.Errorf("creating price cache: %w", err)
	}

	return spot.NewBuilder(cache, cfg.Prices.GetDayTimeout()), nil
}

// resolveToken returns an explicit token if set, otherwise the one saved by
// 'chargecost login'
func resolveToken(cfg *config.Config, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if cfg.Easee.AccessToken != "" {
		return cfg.Easee.AccessToken, nil
	}
	return "", fmt.Errorf("no access token available. Run 'chargecost login' or pass --token")
}
