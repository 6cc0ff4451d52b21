package contracts

import (
	"context"
	"time"
)

// BarReader is the bar store read contract used by the aggregate engine.
// Range reads return bars ordered newest first.
type BarReader interface {
	// BarsOnDay returns every bar recorded for the trade day
	BarsOnDay(ctx context.Context, tradeDay time.Time) ([]DailyBar, error)

	// RecentBars returns up to limit bars with trade_day <= end for the
	// symbol, newest first
	RecentBars(ctx context.Context, code string, end time.Time, limit int) ([]DailyBar, error)
}

// BarWriter is the bar store write contract used by ingestion
type BarWriter interface {
	UpsertBars(ctx context.Context, bars []DailyBar) error
}

// SectorWriter persists sector daily stats
type SectorWriter interface {
	UpsertSectorStats(ctx context.Context, stats []SectorDailyStat) error
}

// ScreenSource feeds the screening engine the joined per-day rows
type ScreenSource interface {
	DayRows(ctx context.Context, tradeDay time.Time) ([]ScreenRow, error)
}

// CandidateWriter persists screening output. The upsert must be atomic
// for the whole slice: either every row lands or none does.
type CandidateWriter interface {
	UpsertCandidates(ctx context.Context, rows []CandidateRow) error
}

// CandidateReader serves persisted screening output
type CandidateReader interface {
	CandidatesByDay(ctx context.Context, tradeDay time.Time, filterID int) ([]CandidateRow, error)
}

// SnapshotStore is the durable snapshot contract. SaveSnapshot replaces
// any previous snapshot for the trade day atomically.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, tradeDay time.Time, entries map[string]AggregateEntry) error
	LoadSnapshot(ctx context.Context, tradeDay time.Time) (map[string]AggregateEntry, error)
	SnapshotState(ctx context.Context, tradeDay time.Time) (SnapshotState, error)
	DropSnapshot(ctx context.Context, tradeDay time.Time) error

	// ProcedureInstalled reports whether the snapshot storage (the build
	// capability) exists at all
	ProcedureInstalled(ctx context.Context) (bool, error)
}
