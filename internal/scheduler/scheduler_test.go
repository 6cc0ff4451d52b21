package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/pkg/logger"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return "0 30 15 * * MON-FRI" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	require.NoError(t, s.AddJob(&countingJob{name: "daily_pipeline"}))
	err := s.AddJob(&countingJob{name: "daily_pipeline"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	err := s.AddJob(&countingJob{name: "broken"})
	// valid schedule passes; mangle via a wrapper
	require.NoError(t, err)

	bad := badScheduleJob{}
	require.Error(t, s.AddJob(bad))
}

type badScheduleJob struct{}

func (badScheduleJob) Name() string                  { return "bad_schedule" }
func (badScheduleJob) Schedule() string              { return "not a cron line" }
func (badScheduleJob) Run(ctx context.Context) error { return nil }

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{name: "daily_pipeline"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, int32(1), job.runs.Load())

	stats := s.Stats()
	st, ok := stats["daily_pipeline"]
	require.True(t, ok)
	assert.Equal(t, 1, st.TotalRuns)
	assert.InDelta(t, 1.0, st.SuccessRate, 1e-9)
	require.NotNil(t, st.LastRun)
	assert.Empty(t, st.LastError)
}

func TestRunJobRetriesAndRecordsFailure(t *testing.T) {
	s := New(logger.NewNop())
	s.maxRetries = 2
	s.retryDelay = time.Millisecond

	job := &countingJob{name: "daily_pipeline", err: errors.New("source down")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	// initial attempt plus two retries
	assert.Equal(t, int32(3), job.runs.Load())

	st := s.Stats()["daily_pipeline"]
	assert.Equal(t, 1, st.TotalRuns)
	assert.Zero(t, st.SuccessRate)
	assert.Equal(t, "source down", st.LastError)
}

func TestRunJobUnknownName(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.RunJob("missing"))
}
