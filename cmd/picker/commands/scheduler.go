package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tailpick/backend/internal/scheduler"
	"github.com/wonny/tailpick/backend/internal/scheduler/jobs"
)

// schedulerCmd runs the daily pipeline on its cron schedule
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the pipeline scheduler",
	Long: `Starts the cron scheduler with the daily pipeline job:
ingest, snapshot build, screening and the CSV report, every
weekday after the mainland close. Non-trading days are skipped
by the calendar.

Example:
  go run ./cmd/picker scheduler
  go run ./cmd/picker scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger the pipeline immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	screener, err := app.screener()
	if err != nil {
		return err
	}

	pipeline := jobs.NewDailyPipelineJob(
		app.calendar(),
		app.ingestService(),
		app.snapshotManager(),
		screener,
		app.reportWriter(),
		app.metrics,
		app.log,
	)

	sched := scheduler.New(app.log)
	if err := sched.AddJob(pipeline); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(pipeline.Name()); err != nil {
			return err
		}
	}

	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
