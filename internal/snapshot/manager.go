// Package snapshot manages the lifecycle of per-trade-day aggregate
// snapshots: Absent -> Building -> Valid -> Superseded. A snapshot is
// immutable once valid; rebuilding replaces it wholesale.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/tailpick/backend/internal/aggregate"
	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// Manager builds and tracks aggregate snapshots
// SSOT: snapshot lifecycle transitions happen here only
type Manager struct {
	store  contracts.SnapshotStore
	engine aggregate.Engine // always the recompute strategy
	logger *logger.Logger

	mu       sync.Mutex
	building map[time.Time]bool // in-process Building guard, per trade day
}

// NewManager creates a snapshot manager. engine must be the recompute
// strategy; building a snapshot from the snapshot strategy would be
// circular.
func NewManager(store contracts.SnapshotStore, engine aggregate.Engine, log *logger.Logger) *Manager {
	return &Manager{
		store:    store,
		engine:   engine,
		logger:   log,
		building: make(map[time.Time]bool),
	}
}

// Build runs recompute once for the trade day and persists every
// qualifying symbol's entry, atomically replacing any previous valid
// snapshot for the same day. Building twice with unchanged bars yields
// an identical snapshot. A concurrent build for the same day returns
// contracts.ErrSnapshotConflict.
func (m *Manager) Build(ctx context.Context, tradeDay time.Time) error {
	day := contracts.Day(tradeDay)

	m.mu.Lock()
	if m.building[day] {
		m.mu.Unlock()
		return contracts.ErrSnapshotConflict
	}
	m.building[day] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.building, day)
		m.mu.Unlock()
	}()

	result, err := m.engine.ComputeAggregates(ctx, day)
	if err != nil {
		// no partial snapshot is ever published
		return err
	}

	if err := m.store.SaveSnapshot(ctx, day, result.Entries); err != nil {
		return err
	}

	m.logger.WithFields(map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"entries":   len(result.Entries),
	}).Info("Snapshot built")

	return nil
}

// Exists reports whether a valid snapshot exists for the trade day.
// Side-effect free.
func (m *Manager) Exists(ctx context.Context, tradeDay time.Time) (bool, error) {
	state, err := m.store.SnapshotState(ctx, contracts.Day(tradeDay))
	if err != nil {
		return false, err
	}
	return state == contracts.SnapshotValid, nil
}

// State returns the lifecycle state for a trade day. An in-process
// build reports Building even before the store observes it.
func (m *Manager) State(ctx context.Context, tradeDay time.Time) (contracts.SnapshotState, error) {
	day := contracts.Day(tradeDay)

	m.mu.Lock()
	inFlight := m.building[day]
	m.mu.Unlock()
	if inFlight {
		return contracts.SnapshotBuilding, nil
	}

	return m.store.SnapshotState(ctx, day)
}

// ProcedureInstalled reports whether the build capability is installed.
// Side-effect free.
func (m *Manager) ProcedureInstalled(ctx context.Context) (bool, error) {
	return m.store.ProcedureInstalled(ctx)
}

// Drop discards a trade day's snapshot; independent per day
func (m *Manager) Drop(ctx context.Context, tradeDay time.Time) error {
	return m.store.DropSnapshot(ctx, contracts.Day(tradeDay))
}
