package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

var testDay = contracts.Date(2025, time.March, 14)

type fakeStore struct {
	mu      sync.Mutex
	state   contracts.SnapshotState
	entries map[string]contracts.AggregateEntry
	saves   int
	saveErr error
}

func (f *fakeStore) SaveSnapshot(ctx context.Context, tradeDay time.Time, entries map[string]contracts.AggregateEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.entries = entries
	f.state = contracts.SnapshotValid
	return nil
}

func (f *fakeStore) LoadSnapshot(ctx context.Context, tradeDay time.Time) (map[string]contracts.AggregateEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, nil
}

func (f *fakeStore) SnapshotState(ctx context.Context, tradeDay time.Time) (contracts.SnapshotState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == "" {
		return contracts.SnapshotAbsent, nil
	}
	return f.state, nil
}

func (f *fakeStore) DropSnapshot(ctx context.Context, tradeDay time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	f.state = contracts.SnapshotSuperseded
	return nil
}

func (f *fakeStore) ProcedureInstalled(ctx context.Context) (bool, error) {
	return true, nil
}

// blockingEngine parks ComputeAggregates until release is closed
type blockingEngine struct {
	entries     map[string]contracts.AggregateEntry
	err         error
	started     chan struct{}
	startedOnce sync.Once
	release     chan struct{}
}

func (e *blockingEngine) ComputeAggregates(ctx context.Context, tradeDay time.Time) (*contracts.AggregateResult, error) {
	if e.started != nil {
		e.startedOnce.Do(func() { close(e.started) })
	}
	if e.release != nil {
		<-e.release
	}
	if e.err != nil {
		return nil, e.err
	}
	return &contracts.AggregateResult{TradeDay: contracts.Day(tradeDay), Entries: e.entries}, nil
}

func someEntries() map[string]contracts.AggregateEntry {
	return map[string]contracts.AggregateEntry{
		"600001": {Code: "600001", TradeDay: testDay, MA250: 10.002, RowCount: contracts.MA250Window},
	}
}

func TestBuildTransitionsToValid(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, &blockingEngine{entries: someEntries()}, logger.NewNop())

	state, err := m.State(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotAbsent, state)

	require.NoError(t, m.Build(context.Background(), testDay))

	exists, err := m.Exists(context.Background(), testDay)
	require.NoError(t, err)
	assert.True(t, exists)

	state, err = m.State(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotValid, state)
}

func TestBuildIsIdempotentOnUnchangedBars(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, &blockingEngine{entries: someEntries()}, logger.NewNop())

	require.NoError(t, m.Build(context.Background(), testDay))
	first := store.entries

	require.NoError(t, m.Build(context.Background(), testDay))
	assert.Equal(t, first, store.entries)
	assert.Equal(t, 2, store.saves)
}

func TestConcurrentBuildConflicts(t *testing.T) {
	engine := &blockingEngine{
		entries: someEntries(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := &fakeStore{}
	m := NewManager(store, engine, logger.NewNop())

	done := make(chan error, 1)
	go func() { done <- m.Build(context.Background(), testDay) }()
	<-engine.started

	// the first build is in flight
	err := m.Build(context.Background(), testDay)
	assert.True(t, errors.Is(err, contracts.ErrSnapshotConflict))

	state, err := m.State(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotBuilding, state)

	close(engine.release)
	require.NoError(t, <-done)

	// the guard clears once the build finishes
	require.NoError(t, m.Build(context.Background(), testDay))
}

func TestBuildFailurePublishesNothing(t *testing.T) {
	engine := &blockingEngine{err: contracts.ErrAggregateComputation}
	store := &fakeStore{}
	m := NewManager(store, engine, logger.NewNop())

	err := m.Build(context.Background(), testDay)
	require.Error(t, err)
	assert.Zero(t, store.saves)

	state, err := m.State(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotAbsent, state)
}

func TestDropSupersedes(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, &blockingEngine{entries: someEntries()}, logger.NewNop())

	require.NoError(t, m.Build(context.Background(), testDay))
	require.NoError(t, m.Drop(context.Background(), testDay))

	exists, err := m.Exists(context.Background(), testDay)
	require.NoError(t, err)
	assert.False(t, exists)

	state, err := m.State(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, contracts.SnapshotSuperseded, state)
}
