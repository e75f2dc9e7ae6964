package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chargecost/internal/ledger"
	"chargecost/internal/spot"
	"chargecost/pkg/models"
)

var (
	fetchYear  int
	fetchMonth int
	fetchZone  string
	fetchToken string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [chargerID]",
	Short: "Fetch and reconcile a month of consumption for a charger",
	Long: `Fetches hourly consumption for the given charger over one calendar month,
joins it against day-ahead spot prices, and stores the reconciled hours in
the local SQLite database. Defaults to the current month.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	now := time.Now()
	fetchCmd.Flags().IntVar(&fetchYear, "year", now.Year(), "Year to fetch")
	fetchCmd.Flags().IntVar(&fetchMonth, "month", int(now.Month()), "Month to fetch (1-12)")
	fetchCmd.Flags().StringVar(&fetchZone, "zone", "", "Price zone (NO1-NO5, default from config)")
	fetchCmd.Flags().StringVar(&fetchToken, "token", "", "Access token (default from config)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Fetch started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	chargerID := args[0]

	if fetchMonth < 1 || fetchMonth > 12 {
		return fmt.Errorf("invalid month: %d", fetchMonth)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := resolveToken(cfg, fetchToken)
	if err != nil {
		return err
	}

	zone := fetchZone
	if zone == "" {
		zone = cfg.Prices.GetZone()
	}
	zone = spot.NormalizeZone(zone)

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	client := newEaseeClient(cfg)
	ctx := context.Background()

	fmt.Printf("Fetching consumption for %s (%04d-%02d)...\n", chargerID, fetchYear, fetchMonth)
	raw, err := client.GetHourlyConsumption(ctx, token, chargerID, fetchYear, fetchMonth)
	if err != nil {
		return fmt.Errorf("fetching consumption: %w", err)
	}

	records := ledger.NormalizeConsumption(raw)
	if len(records) == 0 {
		fmt.Println("No consumption data found")
		return nil
	}

	var report *models.MonthlyReport
	if cfg.Prices.Enabled {
		builder, err := newPriceBuilder(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Fetching spot prices for %s...\n", zone)
		table := builder.Build(ctx, fetchYear, fetchMonth, zone)
		report = ledger.Aggregate(records, table, zone)
	} else {
		// Legacy flat-rate mode: store readings without real prices
		report = ledger.Aggregate(records, models.PriceTable{}, "")
	}

	// Store data (duplicates will be ignored by UNIQUE constraint)
	totalRecords := 0
	for _, hour := range report.HourlyData {
		usage := models.ChargerUsage{
			ChargerID:   chargerID,
			Timestamp:   hour.Timestamp,
			KWh:         hour.KWh,
			PricePerKWh: hour.PricePerKWh,
			Cost:        hour.Cost,
			Zone:        report.PriceZone,
		}
		if err := db.InsertUsage(&usage); err != nil {
			return fmt.Errorf("inserting usage data: %w", err)
		}
		totalRecords++
	}

	fmt.Printf("✓ Processed %d records (duplicates automatically skipped by database)\n", totalRecords)
	if cfg.Prices.Enabled {
		fmt.Printf("✓ Total: %.2f kWh, %.2f NOK (%s)\n", report.TotalKWh, report.TotalCost, report.PriceZone)
	} else {
		fmt.Printf("✓ Total: %.2f kWh\n", report.TotalKWh)
	}
	return nil
}
