package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulldeck",
	Short: "Pulldeck - pull request activity tracker",
	Long: `Pulldeck tracks your open pull requests by polling the GitHub
notification feed, reconciling each pull request's activity into one
deduplicated event log, and deriving read/unread state per pull request.

Authentication uses the GITHUB_TOKEN environment variable (a personal
access token with the notifications and repo scopes).`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
