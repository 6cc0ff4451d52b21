// Package jobs holds the concrete scheduled jobs
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tailpick/backend/internal/calendar"
	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/internal/export"
	"github.com/wonny/tailpick/backend/internal/ingest"
	"github.com/wonny/tailpick/backend/internal/screening"
	"github.com/wonny/tailpick/backend/internal/snapshot"
	"github.com/wonny/tailpick/backend/pkg/logger"
	"github.com/wonny/tailpick/backend/pkg/metrics"
)

// DailyPipelineJob runs the full end-of-day pipeline: ingest the day's
// data, build the aggregate snapshot, screen and write the report.
// SSOT: the pipeline step order is defined here only
type DailyPipelineJob struct {
	calendar *calendar.Calendar
	ingest   *ingest.Service
	snapshot *snapshot.Manager
	screener *screening.Screener
	report   *export.CSVWriter
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewDailyPipelineJob wires the pipeline job
func NewDailyPipelineJob(
	cal *calendar.Calendar,
	ing *ingest.Service,
	snap *snapshot.Manager,
	scr *screening.Screener,
	report *export.CSVWriter,
	m *metrics.Metrics,
	log *logger.Logger,
) *DailyPipelineJob {
	return &DailyPipelineJob{
		calendar: cal,
		ingest:   ing,
		snapshot: snap,
		screener: scr,
		report:   report,
		metrics:  m,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyPipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule runs after the mainland close, 15:30 on weekdays
func (j *DailyPipelineJob) Schedule() string {
	return "0 30 15 * * MON-FRI"
}

// Run executes the pipeline for today. Non-trading days are skipped
// without error; the cron fires on every weekday and the calendar has
// the final say.
func (j *DailyPipelineJob) Run(ctx context.Context) error {
	day := contracts.Day(time.Now())
	return j.RunForDay(ctx, day)
}

// RunForDay executes the pipeline for an explicit trade day
func (j *DailyPipelineJob) RunForDay(ctx context.Context, tradeDay time.Time) error {
	day := contracts.Day(tradeDay)
	log := j.logger.WithField("trade_day", day.Format("2006-01-02"))

	if !j.calendar.Covers(day) {
		return fmt.Errorf("trade day %s outside calendar coverage", day.Format("2006-01-02"))
	}
	if !j.calendar.IsTradingDay(day) {
		log.Info("Not a trading day, pipeline skipped")
		return nil
	}

	log.Info("Daily pipeline started")

	if err := j.ingest.Run(ctx, day); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if err := j.snapshot.Build(ctx, day); err != nil {
		j.metrics.SnapshotBuilds.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot build: %w", err)
	}
	j.metrics.SnapshotBuilds.WithLabelValues("ok").Inc()

	started := time.Now()
	candidates, err := j.screener.Screen(ctx, day)
	if err != nil {
		j.metrics.ScreeningRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("screen: %w", err)
	}
	j.metrics.ScreeningRuns.WithLabelValues("ok").Inc()
	j.metrics.ScreeningSeconds.Observe(time.Since(started).Seconds())
	j.metrics.CandidatesFound.Set(float64(len(candidates)))

	path, err := j.report.WriteReport(day, candidates)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"report":     path,
	}).Info("Daily pipeline finished")

	return nil
}
