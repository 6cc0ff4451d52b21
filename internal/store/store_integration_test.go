package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// testPool connects to the database named by TAILPICK_TEST_DATABASE_URL.
// Integration tests are skipped in short mode and when no test database
// is configured.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := os.Getenv("TAILPICK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TAILPICK_TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	require.NoError(t, InitSchema(context.Background(), pool))
	return pool
}

func TestBarRepositoryRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewBarRepository(pool)

	day := contracts.Date(2025, time.March, 14)
	prev := contracts.Date(2025, time.March, 13)

	bars := []contracts.DailyBar{
		{Code: "899001", TradeDay: prev, Open: 9.9, High: 10.1, Low: 9.8, Close: 10.0, Volume: 90_000},
		{Code: "899001", TradeDay: day, Open: 10.0, High: 10.45, Low: 10.05, Close: 10.4, Volume: 150_000},
	}
	require.NoError(t, repo.UpsertBars(ctx, bars))
	// rerun with a changed close overwrites in place
	bars[1].Close = 10.41
	require.NoError(t, repo.UpsertBars(ctx, bars))

	recent, err := repo.RecentBars(ctx, "899001", day, 250)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, day, recent[0].TradeDay)
	assert.InDelta(t, 10.41, recent[0].Close, 1e-9)
	assert.Equal(t, prev, recent[1].TradeDay)

	onDay, err := repo.BarsOnDay(ctx, day)
	require.NoError(t, err)
	found := false
	for _, b := range onDay {
		if b.Code == "899001" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCandidateRepositoryUpsertIsIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCandidateRepository(pool)

	day := contracts.Date(2025, time.March, 14)
	row := contracts.CandidateRow{
		Code:              "899002",
		TradeDay:          day,
		FilterID:          contracts.FilterTailScraper.ID(),
		Name:              "Test Corp",
		SectorName:        "测试板块",
		SectorPerformance: 2.31,
		PreviousClose:     10.0,
		Close:             10.4,
		GainPct:           4.0,
		PreviousVolume:    90_000,
		Volume:            150_000,
		VolumeGainPct:     66.6667,
		LastUpdated:       time.Now().UTC(),
	}

	require.NoError(t, repo.UpsertCandidates(ctx, []contracts.CandidateRow{row}))

	row.Close = 10.45
	row.GainPct = 4.5
	require.NoError(t, repo.UpsertCandidates(ctx, []contracts.CandidateRow{row}))

	got, err := repo.CandidatesByDay(ctx, day, contracts.FilterTailScraper.ID())
	require.NoError(t, err)

	matches := 0
	for _, c := range got {
		if c.Code == "899002" {
			matches++
			assert.InDelta(t, 10.45, c.Close, 1e-9)
		}
	}
	assert.Equal(t, 1, matches, "rerun must overwrite, not duplicate")
}

func TestSnapshotRepositoryLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(pool)

	day := contracts.Date(2025, time.March, 14)
	entries := map[string]contracts.AggregateEntry{
		"899003": {
			Code:            "899003",
			TradeDay:        day,
			MA250:           10.002,
			Close250DaysAgo: 10.0,
			RowCount:        contracts.MA250Window,
			MA5Volume:       100_000,
			VolumePrevDay:   90_000,
			PrevClose:       10.0,
		},
	}

	installed, err := repo.ProcedureInstalled(ctx)
	require.NoError(t, err)
	assert.True(t, installed)

	require.NoError(t, repo.SaveSnapshot(ctx, day, entries))

	state, err := repo.SnapshotState(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotValid, state)

	loaded, err := repo.LoadSnapshot(ctx, day)
	require.NoError(t, err)
	entry, ok := loaded["899003"]
	require.True(t, ok)
	assert.InDelta(t, 10.002, entry.MA250, 1e-9)
	assert.Equal(t, int64(90_000), entry.VolumePrevDay)

	require.NoError(t, repo.DropSnapshot(ctx, day))
	state, err = repo.SnapshotState(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotSuperseded, state)
}
