package export

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

func sampleCandidates(day time.Time) []contracts.CandidateRow {
	return []contracts.CandidateRow{
		{
			Code:              "600001",
			TradeDay:          day,
			FilterID:          contracts.FilterTailScraper.ID(),
			Name:              "ABC Corp",
			SectorName:        "酿酒行业",
			SectorPerformance: 2.31,
			PreviousClose:     10.0,
			Close:             10.4,
			GainPct:           4.0,
			PreviousVolume:    87_500,
			Volume:            150_000,
			VolumeGainPct:     71.428571,
			LastUpdated:       time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC),
		},
		{
			Code:              "600002",
			TradeDay:          day,
			FilterID:          contracts.FilterTailScraper.ID(),
			Name:              "DEF Corp",
			SectorName:        "半导体",
			SectorPerformance: 1.05,
			PreviousClose:     22.5,
			Close:             23.4,
			GainPct:           4.0,
			PreviousVolume:    300_000,
			Volume:            510_000,
			VolumeGainPct:     70.0,
			LastUpdated:       time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC),
		},
	}
}

func TestWriteReport(t *testing.T) {
	day := contracts.Date(2025, time.March, 14)
	w := NewCSVWriter(t.TempDir(), logger.NewNop())

	path, err := w.WriteReport(day, sampleCandidates(day))
	require.NoError(t, err)
	assert.Contains(t, path, "report-2025-03-14.csv")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])

	first := records[1]
	assert.Equal(t, "600001", first[0])
	assert.Equal(t, "ABC Corp", first[1])
	assert.Equal(t, "酿酒行业", first[2])
	assert.Equal(t, "2.31", first[3])
	assert.Equal(t, "10.000", first[4])
	assert.Equal(t, "10.400", first[5])
	assert.Equal(t, "4.0000", first[6])
	assert.Equal(t, "87500", first[7])
	assert.Equal(t, "150000", first[8])
	assert.Equal(t, "71.4286", first[9])

	// rank order preserved
	assert.Equal(t, "600002", records[2][0])
}

func TestWriteReportEmptyDayProducesHeaderOnlyFile(t *testing.T) {
	day := contracts.Date(2025, time.March, 17)
	w := NewCSVWriter(t.TempDir(), logger.NewNop())

	path, err := w.WriteReport(day, nil)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}

func TestWriteReportReplacesPreviousRun(t *testing.T) {
	day := contracts.Date(2025, time.March, 14)
	w := NewCSVWriter(t.TempDir(), logger.NewNop())

	_, err := w.WriteReport(day, sampleCandidates(day))
	require.NoError(t, err)

	path, err := w.WriteReport(day, sampleCandidates(day)[:1])
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestToFeedRecord(t *testing.T) {
	day := contracts.Date(2025, time.March, 14)
	rec := ToFeedRecord(sampleCandidates(day)[0])

	assert.Equal(t, "600001", rec.Code)
	assert.Equal(t, "酿酒行业", rec.SectorName)
	assert.InDelta(t, 4.0, rec.GainPct, 1e-9)
	assert.Equal(t, "2025-03-14T15:30:00Z", rec.LastUpdated)
}
