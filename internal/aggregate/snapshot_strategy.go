package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// SnapshotStrategy serves aggregates from a prebuilt snapshot when one
// is valid for the trade day: O(1) per symbol. On a miss it falls back
// to recompute and flags RebuildAdvised so the caller can schedule a
// build.
type SnapshotStrategy struct {
	store    contracts.SnapshotStore
	fallback Engine
	logger   *logger.Logger
}

// NewSnapshotStrategy creates the snapshot strategy
func NewSnapshotStrategy(store contracts.SnapshotStore, fallback Engine, log *logger.Logger) *SnapshotStrategy {
	return &SnapshotStrategy{
		store:    store,
		fallback: fallback,
		logger:   log,
	}
}

// ComputeAggregates serves the valid snapshot for the trade day, or
// recomputes when none exists
func (s *SnapshotStrategy) ComputeAggregates(ctx context.Context, tradeDay time.Time) (*contracts.AggregateResult, error) {
	day := contracts.Day(tradeDay)

	state, err := s.store.SnapshotState(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrAggregateComputation, err)
	}

	if state == contracts.SnapshotValid {
		entries, err := s.store.LoadSnapshot(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contracts.ErrAggregateComputation, err)
		}

		s.logger.WithFields(map[string]interface{}{
			"trade_day": day.Format("2006-01-02"),
			"entries":   len(entries),
		}).Debug("Aggregates served from snapshot")

		return &contracts.AggregateResult{TradeDay: day, Entries: entries}, nil
	}

	s.logger.WithField("trade_day", day.Format("2006-01-02")).
		Warn("No valid snapshot, falling back to recompute")

	result, err := s.fallback.ComputeAggregates(ctx, day)
	if err != nil {
		return nil, err
	}
	result.RebuildAdvised = true
	return result, nil
}
