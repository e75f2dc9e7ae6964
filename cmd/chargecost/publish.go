package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chargecost/internal/publisher"
	"chargecost/pkg/models"
)

var (
	publishCharger string
	publishSince   string
	publishUntil   string
	publishAll     bool
	publishLimit   int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish reconciled usage data to MQTT / Home Assistant",
	Long:  `Reads reconciled hourly usage data from the database and publishes it to the configured MQTT broker and/or Home Assistant.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishCharger, "charger", "", "Charger to publish (default: all chargers)")
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish data since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish data until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Determine which chargers to publish
	var chargers []string
	if publishCharger != "" {
		chargers = append(chargers, publishCharger)
	} else {
		chargers, err = db.ListChargers()
		if err != nil {
			return fmt.Errorf("listing chargers: %w", err)
		}
	}

	// Parse date filters if provided
	var sinceDate, untilDate *time.Time
	if publishSince != "" {
		since, err := parseDate(publishSince)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		sinceDate = &since
	}
	if publishUntil != "" {
		until, err := parseDate(publishUntil)
		if err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
		untilDate = &until
	}

	totalPublished := 0
	for _, chargerID := range chargers {
		// Get usage data based on --all flag
		var data []models.ChargerUsage
		if publishAll {
			// When using --all, force republish ALL records
			data, err = db.ListUsage(chargerID)
		} else {
			// Default: only publish unpublished records
			data, err = db.ListUnpublishedUsage(chargerID)
		}
		if err != nil {
			return fmt.Errorf("listing data for %s: %w", chargerID, err)
		}

		if len(data) == 0 {
			if publishAll {
				fmt.Printf("No data found for %s\n", chargerID)
			} else {
				fmt.Printf("No unpublished data found for %s\n", chargerID)
			}
			continue
		}

		// Filter by date range if specified
		filteredData := data
		if sinceDate != nil || untilDate != nil {
			filteredData = []models.ChargerUsage{}
			for _, record := range data {
				when, ok := recordTime(record.Timestamp)
				if !ok {
					continue
				}
				if sinceDate != nil && when.Before(*sinceDate) {
					continue
				}
				if untilDate != nil && when.After(*untilDate) {
					continue
				}
				filteredData = append(filteredData, record)
			}
		}

		if len(filteredData) == 0 {
			fmt.Printf("No data in date range for %s\n", chargerID)
			continue
		}

		// Apply limit if specified
		if publishLimit > 0 && len(filteredData) > publishLimit {
			filteredData = filteredData[:publishLimit]
			fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
		}

		// Publish each record
		fmt.Printf("Publishing %d records for %s...\n", len(filteredData), chargerID)
		published := 0
		for i, record := range filteredData {
			fmt.Printf("[%d/%d] Publishing %s (%.2f kWh)... ", i+1, len(filteredData), record.Timestamp, record.KWh)
			if err := pub.Publish(record); err != nil {
				fmt.Printf("FAILED: %v\n", err)
				continue
			}

			// Mark record as published in database
			if err := db.MarkPublished(record.ID); err != nil {
				fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
			} else {
				fmt.Printf("✓\n")
			}
			published++
		}

		fmt.Printf("Successfully published %d/%d records for %s\n", published, len(filteredData), chargerID)
		totalPublished += published
	}

	fmt.Printf("\nTotal records published: %d\n", totalPublished)
	return nil
}

// recordTime parses a stored hour timestamp for date filtering
func recordTime(ts string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
