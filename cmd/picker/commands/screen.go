package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// screenCmd runs the gate battery for one trade day
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run the tail-scraper screening",
	Long: `Evaluates every symbol with a bar on the trade day against the
gate battery, persists the ranked candidates and writes the
CSV report. Zero candidates is a normal outcome.

Example:
  go run ./cmd/picker screen --date 2025-03-14
  go run ./cmd/picker screen --dry-run
  go run ./cmd/picker screen --no-report`,
	RunE: runScreen,
}

var (
	screenDate     string
	screenDryRun   bool
	screenNoReport bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenDate, "date", "", "trade day (YYYY-MM-DD, default today)")
	screenCmd.Flags().BoolVar(&screenDryRun, "dry-run", false, "evaluate without persisting")
	screenCmd.Flags().BoolVar(&screenNoReport, "no-report", false, "skip the CSV report")
}

func runScreen(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(screenDate)
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

	screener, err := app.screener()
	if err != nil {
		return err
	}

	candidates, err := screener.WithDryRun(screenDryRun).Screen(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}

	for i, c := range candidates {
		fmt.Printf("%3d  %-8s %-12s %-12s %6.2f%%  gain %.4f%%\n",
			i+1, c.Code, c.Name, c.SectorName, c.SectorPerformance, c.GainPct)
	}
	fmt.Printf("%d candidate(s) for %s\n", len(candidates), day.Format("2006-01-02"))

	if screenDryRun || screenNoReport {
		return nil
	}

	path, err := app.reportWriter().WriteReport(day, candidates)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report: %s\n", path)

	return nil
}
