package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chargecost/internal/ledger"
	"chargecost/internal/spot"
	"chargecost/pkg/models"
)

var (
	reportYear  int
	reportMonth int
	reportZone  string
	reportToken string
	reportJSON  bool
)

var reportCmd = &cobra.Command{
	Use:   "report [chargerID]",
	Short: "Reconcile and report a month of charging costs",
	Long: `Fetches hourly consumption for the given charger over one calendar month,
joins it against day-ahead spot prices, and prints the monthly cost report.
Nothing is written to the database; use 'fetch' to archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonthlyReport,
}

func init() {
	now := time.Now()
	reportCmd.Flags().IntVar(&reportYear, "year", now.Year(), "Year to report")
	reportCmd.Flags().IntVar(&reportMonth, "month", int(now.Month()), "Month to report (1-12)")
	reportCmd.Flags().StringVar(&reportZone, "zone", "", "Price zone (NO1-NO5, default from config)")
	reportCmd.Flags().StringVar(&reportToken, "token", "", "Access token (default from config)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output the full report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runMonthlyReport(cmd *cobra.Command, args []string) error {
	chargerID := args[0]

	if reportMonth < 1 || reportMonth > 12 {
		return fmt.Errorf("invalid month: %d", reportMonth)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := resolveToken(cfg, reportToken)
	if err != nil {
		return err
	}

	zone := reportZone
	if zone == "" {
		zone = cfg.Prices.GetZone()
	}
	zone = spot.NormalizeZone(zone)

	client := newEaseeClient(cfg)
	ctx := context.Background()

	raw, err := client.GetHourlyConsumption(ctx, token, chargerID, reportYear, reportMonth)
	if err != nil {
		return fmt.Errorf("fetching consumption: %w", err)
	}
	records := ledger.NormalizeConsumption(raw)

	if !cfg.Prices.Enabled {
		totalKWh, totalPrice := ledger.AggregateFlat(records)
		if reportJSON {
			return printJSON(map[string]any{
				"total_kwh":   totalKWh,
				"total_price": totalPrice,
				"hourly_data": records,
			})
		}
		fmt.Printf("\n%s  %04d-%02d\n", chargerID, reportYear, reportMonth)
		fmt.Printf("Total: %.2f kWh, %.2f NOK (flat rate, %d hours)\n", totalKWh, totalPrice, len(records))
		return nil
	}

	builder, err := newPriceBuilder(cfg)
	if err != nil {
		return err
	}

	table := builder.Build(ctx, reportYear, reportMonth, zone)
	report := ledger.Aggregate(records, table, zone)

	if reportJSON {
		return printJSON(report)
	}

	printReportTable(chargerID, reportYear, reportMonth, report)
	return nil
}

func printReportTable(chargerID string, year, month int, report *models.MonthlyReport) {
	fmt.Printf("\n%s  %04d-%02d  (%s)\n", chargerID, year, month, report.PriceZone)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-25s  %8s  %8s  %8s\n", "Hour", "kWh", "NOK/kWh", "Cost")
	fmt.Println("------------------------------------------------------------")

	for _, hour := range report.HourlyData {
		fmt.Printf("%-25s  %8.2f  %8.4f  %8.2f\n", hour.Timestamp, hour.KWh, hour.PricePerKWh, hour.Cost)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %.2f kWh, %.2f NOK (%d hours)\n", report.TotalKWh, report.TotalCost, len(report.HourlyData))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
