package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// defaultWorkers bounds the per-symbol fan-out. Reads are the only
// shared access, so parallelism is safe; the bound keeps the pool from
// being drained by one run.
const defaultWorkers = 8

// Recompute derives aggregates from raw history on every call:
// O(window) per symbol per day. It is the fallback strategy and the
// producer snapshots are built from.
type Recompute struct {
	bars    contracts.BarReader
	logger  *logger.Logger
	workers int
}

// NewRecompute creates the recompute strategy
func NewRecompute(bars contracts.BarReader, log *logger.Logger) *Recompute {
	return &Recompute{
		bars:    bars,
		logger:  log,
		workers: defaultWorkers,
	}
}

// WithWorkers overrides the fan-out bound (minimum 1)
func (r *Recompute) WithWorkers(n int) *Recompute {
	if n < 1 {
		n = 1
	}
	r.workers = n
	return r
}

// ComputeAggregates computes entries for every symbol that has a bar on
// the trade day and a full close window. A store failure is fatal for
// the invocation; no partial result is returned.
func (r *Recompute) ComputeAggregates(ctx context.Context, tradeDay time.Time) (*contracts.AggregateResult, error) {
	day := contracts.Day(tradeDay)

	dayBars, err := r.bars.BarsOnDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrAggregateComputation, err)
	}

	result := &contracts.AggregateResult{
		TradeDay: day,
		Entries:  make(map[string]contracts.AggregateEntry, len(dayBars)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, bar := range dayBars {
		code := bar.Code
		g.Go(func() error {
			window, err := r.bars.RecentBars(gctx, code, day, contracts.MA250Window)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", contracts.ErrAggregateComputation, code, err)
			}

			entry, ok := BuildEntry(day, window)
			if !ok {
				// insufficient history: excluded, not an error
				return nil
			}

			mu.Lock()
			result.Entries[code] = entry
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"symbols":   len(dayBars),
		"qualified": len(result.Entries),
	}).Debug("Recompute aggregates finished")

	return result, nil
}
