package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chargecost/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP report API",
	Long: `Starts an HTTP server exposing the monthly report API:

  GET /api/report/:chargerID?year=YYYY&month=M&price_zone=NO1
  GET /api/sites
  GET /api/chargers/:siteID

The server shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	builder, err := newPriceBuilder(cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, newEaseeClient(cfg), builder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving on %s\n", cfg.Server.GetAddress())
	return srv.Run(ctx)
}
