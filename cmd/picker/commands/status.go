package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// statusCmd summarizes the pipeline state for a trade day
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline status for a trade day",
	Long: `Reports database health, calendar verdict, snapshot state and
candidate count for a trade day.

Example:
  go run ./cmd/picker status --date 2025-03-14`,
	RunE: runStatus,
}

var statusDate string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusDate, "date", "", "trade day (YYYY-MM-DD, default today)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(statusDate)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	health, err := app.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health: %w", err)
	}

	cal := app.calendar()
	from, to := cal.Coverage()

	state, err := app.snapshotManager().State(ctx, day)
	if err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}

	candidates, err := app.candidates.CandidatesByDay(ctx, day, contracts.FilterTailScraper.ID())
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	fmt.Printf("Trade day:     %s\n", day.Format("2006-01-02"))
	dbState := "unhealthy"
	if health.Healthy {
		dbState = "healthy"
	}
	fmt.Printf("Database:      %s (%dms)\n", dbState, health.ResponseTime.Milliseconds())
	fmt.Printf("Calendar:      %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cal.Covers(day) {
		fmt.Printf("Trading day:   %t\n", cal.IsTradingDay(day))
	} else {
		fmt.Println("Trading day:   unknown (outside calendar coverage)")
	}
	fmt.Printf("Snapshot:      %s\n", state)
	fmt.Printf("Candidates:    %d\n", len(candidates))

	return nil
}
