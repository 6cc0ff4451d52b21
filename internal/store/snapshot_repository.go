package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// snapshotLockClass namespaces the advisory locks used to serialize
// snapshot builds against other advisory-lock users of the database.
const snapshotLockClass = 7250

// SnapshotRepository is the durable side of the snapshot manager.
// Snapshots live as plain rows in aggregate_snapshot plus a registry row
// carrying the lifecycle state; the swap is a DELETE+INSERT inside one
// transaction under an advisory lock, so at most one valid snapshot per
// trade day can ever be observed.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// lockKey maps a trade day to a stable advisory lock key
func lockKey(tradeDay time.Time) int32 {
	epoch := contracts.Date(1970, time.January, 1)
	return int32(contracts.Day(tradeDay).Sub(epoch) / (24 * time.Hour))
}

// SaveSnapshot atomically replaces the trade day's snapshot with the
// given entries. A concurrent build for the same day surfaces as
// contracts.ErrSnapshotConflict.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, tradeDay time.Time, entries map[string]contracts.AggregateEntry) error {
	day := contracts.Day(tradeDay)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// serialize builds per trade day; xact-scoped so the lock drops with
	// the transaction either way
	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT pg_try_advisory_xact_lock($1, $2)`,
		snapshotLockClass, lockKey(day),
	).Scan(&locked)
	if err != nil {
		return fmt.Errorf("acquire snapshot lock: %w", err)
	}
	if !locked {
		return contracts.ErrSnapshotConflict
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO snapshot_registry (trade_day, state, entry_count)
		VALUES ($1, 'building', 0)
		ON CONFLICT (trade_day) DO UPDATE SET state = 'building'
	`, day); err != nil {
		return fmt.Errorf("mark snapshot building: %w", err)
	}

	// replace-in-place: the previous snapshot for this day is dropped
	// wholesale, never merged
	if _, err := tx.Exec(ctx,
		`DELETE FROM aggregate_snapshot WHERE trade_day = $1`, day); err != nil {
		return fmt.Errorf("drop superseded snapshot: %w", err)
	}

	insert := `
		INSERT INTO aggregate_snapshot (
			trade_day, code, ma250, close_250_days_ago, row_count,
			ma5_volume, volume_prev_day, prev_close
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insert,
			day, e.Code, e.MA250, contracts.Round3(e.Close250DaysAgo), e.RowCount,
			e.MA5Volume, e.VolumePrevDay, contracts.Round3(e.PrevClose),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert snapshot entry: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("flush snapshot batch: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE snapshot_registry
		SET state = 'valid', entry_count = $2, built_at = now()
		WHERE trade_day = $1
	`, day, len(entries)); err != nil {
		return fmt.Errorf("mark snapshot valid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the trade day's snapshot entries
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, tradeDay time.Time) (map[string]contracts.AggregateEntry, error) {
	query := `
		SELECT code, ma250, close_250_days_ago, row_count,
			ma5_volume, volume_prev_day, prev_close
		FROM aggregate_snapshot
		WHERE trade_day = $1
	`

	day := contracts.Day(tradeDay)
	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]contracts.AggregateEntry)
	for rows.Next() {
		e := contracts.AggregateEntry{TradeDay: day}
		err := rows.Scan(
			&e.Code, &e.MA250, &e.Close250DaysAgo, &e.RowCount,
			&e.MA5Volume, &e.VolumePrevDay, &e.PrevClose,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		entries[e.Code] = e
	}
	return entries, rows.Err()
}

// SnapshotState returns the registry state for a trade day
func (r *SnapshotRepository) SnapshotState(ctx context.Context, tradeDay time.Time) (contracts.SnapshotState, error) {
	var state string
	err := r.pool.QueryRow(ctx,
		`SELECT state FROM snapshot_registry WHERE trade_day = $1`,
		contracts.Day(tradeDay),
	).Scan(&state)
	if err != nil {
		if err == pgx.ErrNoRows {
			return contracts.SnapshotAbsent, nil
		}
		return contracts.SnapshotAbsent, fmt.Errorf("query snapshot state: %w", err)
	}
	return contracts.SnapshotState(state), nil
}

// DropSnapshot discards a trade day's snapshot. Per-day snapshots are
// independent; dropping an old day never affects newer ones.
func (r *SnapshotRepository) DropSnapshot(ctx context.Context, tradeDay time.Time) error {
	day := contracts.Day(tradeDay)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin drop tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM aggregate_snapshot WHERE trade_day = $1`, day); err != nil {
		return fmt.Errorf("delete snapshot rows: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE snapshot_registry SET state = 'superseded' WHERE trade_day = $1
	`, day); err != nil {
		return fmt.Errorf("mark snapshot superseded: %w", err)
	}

	return tx.Commit(ctx)
}

// ProcedureInstalled reports whether the snapshot storage itself exists,
// i.e. the schema has been applied
func (r *SnapshotRepository) ProcedureInstalled(ctx context.Context) (bool, error) {
	var installed bool
	err := r.pool.QueryRow(ctx,
		`SELECT to_regclass('aggregate_snapshot') IS NOT NULL
			AND to_regclass('snapshot_registry') IS NOT NULL`,
	).Scan(&installed)
	if err != nil {
		return false, fmt.Errorf("check snapshot tables: %w", err)
	}
	return installed, nil
}
