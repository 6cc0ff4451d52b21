package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ingestCmd pulls one trade day's market data
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest end-of-day market data",
	Long: `Pulls the A-share spot list and the sector board list for a
trade day and lands them in the store. Rerunning for the same
day overwrites in place.

Example:
  go run ./cmd/picker ingest --date 2025-03-14
  go run ./cmd/picker ingest --memberships`,
	RunE: runIngest,
}

var (
	ingestDate        string
	ingestMemberships bool
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "trade day (YYYY-MM-DD, default today)")
	ingestCmd.Flags().BoolVar(&ingestMemberships, "memberships", false, "also refresh board memberships")
}

func runIngest(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(ingestDate)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	cal := app.calendar()
	if cal.Covers(day) && !cal.IsTradingDay(day) {
		return fmt.Errorf("%s is not a trading day", day.Format("2006-01-02"))
	}

	svc := app.ingestService().WithMemberships(ingestMemberships)
	if err := svc.Run(cmd.Context(), day); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("Ingested %s\n", day.Format("2006-01-02"))
	return nil
}
