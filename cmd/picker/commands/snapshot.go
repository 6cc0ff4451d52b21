package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// snapshotCmd groups the snapshot lifecycle commands
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage aggregate snapshots",
	Long: `Build, inspect or drop the per-trade-day aggregate snapshot.

Example:
  go run ./cmd/picker snapshot build --date 2025-03-14
  go run ./cmd/picker snapshot status --date 2025-03-14
  go run ./cmd/picker snapshot drop --date 2025-03-14`,
}

var snapshotDate string

var snapshotBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the snapshot for a trade day",
	RunE:  runSnapshotBuild,
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the snapshot state for a trade day",
	RunE:  runSnapshotStatus,
}

var snapshotDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the snapshot for a trade day",
	RunE:  runSnapshotDrop,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.PersistentFlags().StringVar(&snapshotDate, "date", "", "trade day (YYYY-MM-DD, default today)")
	snapshotCmd.AddCommand(snapshotBuildCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotDropCmd)
}

func runSnapshotBuild(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(snapshotDate)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	manager := app.snapshotManager()
	if err := manager.Build(cmd.Context(), day); err != nil {
		return fmt.Errorf("snapshot build: %w", err)
	}

	fmt.Printf("Snapshot built for %s\n", day.Format("2006-01-02"))
	return nil
}

func runSnapshotStatus(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(snapshotDate)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	manager := app.snapshotManager()

	installed, err := manager.ProcedureInstalled(cmd.Context())
	if err != nil {
		return fmt.Errorf("snapshot status: %w", err)
	}
	state, err := manager.State(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("snapshot status: %w", err)
	}

	fmt.Printf("Trade day:  %s\n", day.Format("2006-01-02"))
	fmt.Printf("Installed:  %t\n", installed)
	fmt.Printf("State:      %s\n", state)
	return nil
}

func runSnapshotDrop(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag(snapshotDate)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.snapshotManager().Drop(cmd.Context(), day); err != nil {
		return fmt.Errorf("snapshot drop: %w", err)
	}

	fmt.Printf("Snapshot dropped for %s\n", day.Format("2006-01-02"))
	return nil
}
