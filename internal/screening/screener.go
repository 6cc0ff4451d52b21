// Package screening runs the tail-scraper gate battery over one trade
// day's joined rows and persists the survivors as candidate rows.
package screening

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/tailpick/backend/internal/aggregate"
	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// Screener evaluates the gate battery for one filter strategy
// SSOT: gate thresholds live in Config, gate logic in checkGates
type Screener struct {
	config Config
	filter contracts.StockFilter
	engine aggregate.Engine
	source contracts.ScreenSource
	writer contracts.CandidateWriter
	logger *logger.Logger
	dryRun bool
}

// NewScreener creates a tail-scraper screener
func NewScreener(
	cfg Config,
	engine aggregate.Engine,
	source contracts.ScreenSource,
	writer contracts.CandidateWriter,
	log *logger.Logger,
) *Screener {
	return &Screener{
		config: cfg,
		filter: contracts.FilterTailScraper,
		engine: engine,
		source: source,
		writer: writer,
		logger: log,
	}
}

// WithDryRun makes Screen evaluate and rank without persisting
func (s *Screener) WithDryRun(dry bool) *Screener {
	s.dryRun = dry
	return s
}

// Screen evaluates every joined row for the trade day against the gate
// battery, ranks the survivors by sector performance and atomically
// upserts them. Rerunning for the same day overwrites the previous
// run's rows in place. An empty result is a normal outcome, not an
// error.
func (s *Screener) Screen(ctx context.Context, tradeDay time.Time) ([]contracts.CandidateRow, error) {
	day := contracts.Day(tradeDay)
	runID := uuid.NewString()
	started := time.Now()

	log := s.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"filter":    s.filter.Name(),
		"trade_day": day.Format("2006-01-02"),
	})

	aggs, err := s.engine.ComputeAggregates(ctx, day)
	if err != nil {
		return nil, err
	}

	rows, err := s.source.DayRows(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load day rows: %w", err)
	}

	var (
		candidates []contracts.CandidateRow
		rejected   = make(map[string]int)
		dataGaps   int
	)
	now := time.Now().UTC()

	for _, row := range rows {
		entry, ok := aggs.Entries[row.Bar.Code]
		if !ok {
			// no full window for this symbol: silently excluded
			dataGaps++
			continue
		}

		if gate := s.checkGates(row, entry); gate != "" {
			rejected[gate]++
			continue
		}

		bar := row.Bar
		candidates = append(candidates, contracts.CandidateRow{
			Code:              bar.Code,
			TradeDay:          day,
			FilterID:          s.filter.ID(),
			Name:              row.Name,
			SectorName:        row.SectorName,
			SectorPerformance: row.SectorChangeRate,
			PreviousClose:     entry.PrevClose,
			Close:             bar.Close,
			GainPct:           gainPct(bar.Close, entry.PrevClose),
			PreviousVolume:    entry.VolumePrevDay,
			Volume:            bar.Volume,
			VolumeGainPct:     volumeGainPct(bar.Volume, entry.VolumePrevDay),
			LastUpdated:       now,
		})
	}

	// hottest sector first; ties broken by sector name descending, then
	// by the source's code ordering via sort stability
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SectorPerformance != b.SectorPerformance {
			return a.SectorPerformance > b.SectorPerformance
		}
		return a.SectorName > b.SectorName
	})

	if !s.dryRun && len(candidates) > 0 {
		if err := s.writer.UpsertCandidates(ctx, candidates); err != nil {
			return nil, err
		}
	}

	log.WithFields(map[string]interface{}{
		"screened":   len(rows),
		"candidates": len(candidates),
		"data_gaps":  dataGaps,
		"rejected":   rejected,
		"dry_run":    s.dryRun,
		"elapsed":    time.Since(started).String(),
	}).Info("Screening run finished")

	return candidates, nil
}
