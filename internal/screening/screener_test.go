package screening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

type stubEngine struct {
	result *contracts.AggregateResult
	err    error
}

func (e stubEngine) ComputeAggregates(ctx context.Context, tradeDay time.Time) (*contracts.AggregateResult, error) {
	return e.result, e.err
}

type stubSource struct {
	rows []contracts.ScreenRow
	err  error
}

func (s stubSource) DayRows(ctx context.Context, tradeDay time.Time) ([]contracts.ScreenRow, error) {
	return s.rows, s.err
}

type captureWriter struct {
	rows  []contracts.CandidateRow
	calls int
	err   error
}

func (w *captureWriter) UpsertCandidates(ctx context.Context, rows []contracts.CandidateRow) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows[:0], rows...)
	return nil
}

var testDay = contracts.Date(2025, time.March, 14)

// passingFixture builds a row/entry pair that clears every gate:
// gain 4.00%, volume 87500 -> ma5 100000 -> 150000 strictly rising,
// low 10.050 above ma250 10.002.
func passingFixture(code, name string) (contracts.ScreenRow, contracts.AggregateEntry) {
	bar := contracts.DailyBar{
		Code:     code,
		TradeDay: testDay,
		Open:     10.000,
		High:     10.450,
		Low:      10.050,
		Close:    10.400,

		Volume:                150_000,
		Turnover:              1_560_000,
		Capital:               8_000_000_000,
		CirculationCapital:    5_000_000_000,
		QuantityRelativeRatio: 1.5,
		TurnoverRate:          6.0,
	}
	entry := contracts.AggregateEntry{
		Code:            code,
		TradeDay:        testDay,
		MA250:           10.002,
		Close250DaysAgo: 10.000,
		RowCount:        contracts.MA250Window,
		MA5Volume:       100_000,
		VolumePrevDay:   87_500,
		PrevClose:       10.000,
	}
	row := contracts.ScreenRow{
		Bar:              bar,
		Name:             name,
		SectorCode:       "BK0475",
		SectorName:       "酿酒行业",
		SectorChangeRate: 2.31,
	}
	return row, entry
}

func newTestScreener(engine stubEngine, source stubSource, writer *captureWriter) *Screener {
	return NewScreener(DefaultConfig(), engine, source, writer, logger.NewNop())
}

func resultWith(entries ...contracts.AggregateEntry) *contracts.AggregateResult {
	m := make(map[string]contracts.AggregateEntry, len(entries))
	for _, e := range entries {
		m[e.Code] = e
	}
	return &contracts.AggregateResult{TradeDay: testDay, Entries: m}
}

func TestScreenAllGatesPass(t *testing.T) {
	row, entry := passingFixture("600001", "ABC Corp")
	writer := &captureWriter{}

	s := newTestScreener(
		stubEngine{result: resultWith(entry)},
		stubSource{rows: []contracts.ScreenRow{row}},
		writer,
	)

	got, err := s.Screen(context.Background(), testDay)
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "600001", c.Code)
	assert.Equal(t, contracts.FilterTailScraper.ID(), c.FilterID)
	assert.Equal(t, testDay, c.TradeDay)
	assert.Equal(t, "ABC Corp", c.Name)
	assert.Equal(t, "酿酒行业", c.SectorName)
	assert.InDelta(t, 2.31, c.SectorPerformance, 1e-9)
	assert.InDelta(t, 10.000, c.PreviousClose, 1e-9)
	assert.InDelta(t, 10.400, c.Close, 1e-9)
	assert.InDelta(t, 4.0, c.GainPct, 1e-9)
	assert.Equal(t, int64(87_500), c.PreviousVolume)
	assert.Equal(t, int64(150_000), c.Volume)
	assert.InDelta(t, 71.428571, c.VolumeGainPct, 1e-4)
	assert.False(t, c.LastUpdated.IsZero())

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, got, writer.rows)
}

func TestScreenGateIndependence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(row *contracts.ScreenRow, entry *contracts.AggregateEntry)
		gate   string
	}{
		{
			name: "gain below band",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.Close = 10.200 // 2.00%
			},
			gate: gateGainBand,
		},
		{
			name: "gain above band",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.Close = 10.600 // 6.00%
			},
			gate: gateGainBand,
		},
		{
			name: "quantity ratio below floor",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.QuantityRelativeRatio = 0.8
			},
			gate: gateQuantity,
		},
		{
			name: "turnover exactly at floor fails",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.TurnoverRate = 5.0
			},
			gate: gateTurnover,
		},
		{
			name: "capital below band",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.CirculationCapital = 150_000_000
			},
			gate: gateCapitalBand,
		},
		{
			name: "capital above band",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.CirculationCapital = 30_000_000_000
			},
			gate: gateCapitalBand,
		},
		{
			name: "volume not above 5-day average",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.Volume = 100_000
			},
			gate: gateVolumeRamp,
		},
		{
			name: "previous volume not below 5-day average",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				e.VolumePrevDay = 100_000
			},
			gate: gateVolumeRamp,
		},
		{
			name: "star-ST prefix",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Name = "*ST Steel"
			},
			gate: gateName,
		},
		{
			name: "lowercase st",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Name = "st数控"
			},
			gate: gateName,
		},
		{
			name: "low exactly on ma250 fails",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.Low = e.MA250
			},
			gate: gateLowOverMA,
		},
		{
			name: "doji close equals open",
			mutate: func(r *contracts.ScreenRow, e *contracts.AggregateEntry) {
				r.Bar.Open = r.Bar.Close
			},
			gate: gateGreenCandle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, entry := passingFixture("600001", "ABC Corp")
			tt.mutate(&row, &entry)

			s := newTestScreener(
				stubEngine{result: resultWith(entry)},
				stubSource{rows: []contracts.ScreenRow{row}},
				&captureWriter{},
			)

			assert.Equal(t, tt.gate, s.checkGates(row, entry))

			got, err := s.Screen(context.Background(), testDay)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestScreenNameGateOnly(t *testing.T) {
	// identical numbers, only the name differs: exclusion is down to the
	// name gate alone
	row, entry := passingFixture("600002", "*ST ABC")

	s := newTestScreener(
		stubEngine{result: resultWith(entry)},
		stubSource{rows: []contracts.ScreenRow{row}},
		&captureWriter{},
	)

	assert.Equal(t, gateName, s.checkGates(row, entry))
}

func TestScreenDataGapExcludedSilently(t *testing.T) {
	rowWithEntry, entry := passingFixture("600001", "ABC Corp")
	rowWithout, _ := passingFixture("600002", "DEF Corp")

	writer := &captureWriter{}
	s := newTestScreener(
		stubEngine{result: resultWith(entry)},
		stubSource{rows: []contracts.ScreenRow{rowWithEntry, rowWithout}},
		writer,
	)

	got, err := s.Screen(context.Background(), testDay)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "600001", got[0].Code)
}

func TestScreenRanking(t *testing.T) {
	rowA, entryA := passingFixture("600001", "Alpha")
	rowA.SectorName = "电子元件"
	rowA.SectorChangeRate = 1.10

	rowB, entryB := passingFixture("600002", "Bravo")
	rowB.SectorName = "酿酒行业"
	rowB.SectorChangeRate = 2.31

	// same performance as B, name sorts lower descending
	rowC, entryC := passingFixture("600003", "Charlie")
	rowC.SectorName = "半导体"
	rowC.SectorChangeRate = 2.31

	writer := &captureWriter{}
	s := newTestScreener(
		stubEngine{result: resultWith(entryA, entryB, entryC)},
		stubSource{rows: []contracts.ScreenRow{rowA, rowB, rowC}},
		writer,
	)

	got, err := s.Screen(context.Background(), testDay)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "600002", got[0].Code) // 2.31 酿酒行业
	assert.Equal(t, "600003", got[1].Code) // 2.31 半导体
	assert.Equal(t, "600001", got[2].Code) // 1.10
}

func TestScreenDryRunSkipsWriter(t *testing.T) {
	row, entry := passingFixture("600001", "ABC Corp")
	writer := &captureWriter{}

	s := newTestScreener(
		stubEngine{result: resultWith(entry)},
		stubSource{rows: []contracts.ScreenRow{row}},
		writer,
	).WithDryRun(true)

	got, err := s.Screen(context.Background(), testDay)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Zero(t, writer.calls)
}

func TestScreenEmptyDayIsNotAnError(t *testing.T) {
	writer := &captureWriter{}
	s := newTestScreener(
		stubEngine{result: resultWith()},
		stubSource{},
		writer,
	)

	got, err := s.Screen(context.Background(), testDay)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, writer.calls)
}

func TestScreenUpsertFailurePropagates(t *testing.T) {
	row, entry := passingFixture("600001", "ABC Corp")
	writer := &captureWriter{err: contracts.ErrUpsert}

	s := newTestScreener(
		stubEngine{result: resultWith(entry)},
		stubSource{rows: []contracts.ScreenRow{row}},
		writer,
	)

	_, err := s.Screen(context.Background(), testDay)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrUpsert))
}

func TestScreenAggregateFailurePropagates(t *testing.T) {
	s := newTestScreener(
		stubEngine{err: contracts.ErrAggregateComputation},
		stubSource{},
		&captureWriter{},
	)

	_, err := s.Screen(context.Background(), testDay)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrAggregateComputation))
}
