package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chargecost/internal/ledger"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [chargerID]",
	Short: "List stored reconciled usage data",
	Long: `Displays reconciled hourly usage and cost data from the database.
Without a charger ID, reports on every charger in the archive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Determine which chargers to query
	var chargers []string
	if len(args) == 1 {
		chargers = append(chargers, args[0])
	} else {
		chargers, err = db.ListChargers()
		if err != nil {
			return fmt.Errorf("listing chargers: %w", err)
		}
		if len(chargers) == 0 {
			fmt.Println("No data found")
			return nil
		}
	}

	for _, chargerID := range chargers {
		data, err := db.ListUsage(chargerID)
		if err != nil {
			return fmt.Errorf("listing data for %s: %w", chargerID, err)
		}

		if len(data) == 0 {
			fmt.Printf("No data found for %s\n", chargerID)
			continue
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(data); err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			continue
		}

		fmt.Printf("\n%s Usage Data:\n", chargerID)
		fmt.Println("------------------------------------------------------------")
		fmt.Printf("%-20s  %8s  %10s  %10s\n", "Hour", "kWh", "NOK/kWh", "Cost")
		fmt.Println("------------------------------------------------------------")

		var totalKWh, totalCost float64
		for _, record := range data {
			fmt.Printf("%-20s  %8.2f  %10.4f  %10.2f\n", record.Timestamp, record.KWh, record.PricePerKWh, record.Cost)
			totalKWh += record.KWh
			totalCost += record.Cost
		}

		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Total: %.2f kWh, %.2f NOK (%d records)\n", ledger.Round2(totalKWh), ledger.Round2(totalCost), len(data))
	}

	return nil
}
