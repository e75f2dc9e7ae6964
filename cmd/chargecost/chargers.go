package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var chargersToken string

var chargersCmd = &cobra.Command{
	Use:   "chargers [siteID]",
	Short: "List sites and chargers on the account",
	Long: `Without arguments, lists all sites visible to the account.
With a site ID, lists the chargers installed at that site.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChargers,
}

func init() {
	chargersCmd.Flags().StringVar(&chargersToken, "token", "", "Access token (default from config)")
	rootCmd.AddCommand(chargersCmd)
}

func runChargers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := resolveToken(cfg, chargersToken)
	if err != nil {
		return err
	}

	client := newEaseeClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var payload any
	if len(args) == 1 {
		payload, err = client.GetChargers(ctx, token, args[0])
		if err != nil {
			return fmt.Errorf("listing chargers: %w", err)
		}
	} else {
		payload, err = client.GetSites(ctx, token)
		if err != nil {
			return fmt.Errorf("listing sites: %w", err)
		}
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}

	fmt.Println(string(pretty))
	return nil
}
