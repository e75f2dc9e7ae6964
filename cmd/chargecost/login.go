package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the charging provider and save an access token",
	Long: `Authenticates against the charging provider API with username/password and
saves the returned access token to the config file.

Credentials are taken from the flags, the config file, or the
EASEE_USERNAME/EASEE_PASSWORD environment variables, in that order.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Account username (usually a phone number)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	username := loginUsername
	if username == "" {
		username = cfg.Easee.Username
	}
	if username == "" {
		username = os.Getenv("EASEE_USERNAME")
	}

	password := loginPassword
	if password == "" {
		password = cfg.Easee.Password
	}
	if password == "" {
		password = os.Getenv("EASEE_PASSWORD")
	}

	if username == "" || password == "" {
		return fmt.Errorf("no credentials configured. Pass --username/--password, add them to %s, or set EASEE_USERNAME/EASEE_PASSWORD", getConfigPath())
	}

	client := newEaseeClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Authenticating...")
	token, err := client.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	cfg.Easee.AccessToken = token
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Access token saved to %s\n", getConfigPath())
	return nil
}
