package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "picker",
	Short: "Tailpick - end-of-day A-share momentum screener",
	Long: `Tailpick Unified CLI

End-of-day screening pipeline for mainland A shares:
ingest daily bars, build aggregate snapshots, run the
tail-scraper gate battery and publish the candidate report.

Usage:
  go run ./cmd/picker [command]

Examples:
  go run ./cmd/picker init
  go run ./cmd/picker ingest --date 2025-03-14
  go run ./cmd/picker snapshot build --date 2025-03-14
  go run ./cmd/picker screen --date 2025-03-14
  go run ./cmd/picker scheduler
  go run ./cmd/picker api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
