package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// CandidateRepository persists screening output
// SSOT: the screening engine is the sole writer of feed_daily
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// UpsertCandidates writes the whole candidate set in one transaction.
// Either every row lands or none does, so an aborted or failed run
// leaves no half-written trade day behind.
func (r *CandidateRepository) UpsertCandidates(ctx context.Context, rows []contracts.CandidateRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO feed_daily (
			code, trade_day, filter_id, name, sector_name, sector_performance,
			previous_close, close, gain, previous_volume, volume, volume_gain,
			last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (code, trade_day, filter_id) DO UPDATE SET
			name = EXCLUDED.name,
			sector_name = EXCLUDED.sector_name,
			sector_performance = EXCLUDED.sector_performance,
			previous_close = EXCLUDED.previous_close,
			close = EXCLUDED.close,
			gain = EXCLUDED.gain,
			previous_volume = EXCLUDED.previous_volume,
			volume = EXCLUDED.volume,
			volume_gain = EXCLUDED.volume_gain,
			last_updated = now()
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", contracts.ErrUpsert, err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, c := range rows {
		batch.Queue(query,
			c.Code, contracts.Day(c.TradeDay), c.FilterID,
			c.Name, c.SectorName, c.SectorPerformance,
			contracts.Round3(c.PreviousClose), contracts.Round3(c.Close), c.GainPct,
			c.PreviousVolume, c.Volume, c.VolumeGainPct,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("%w: %v", contracts.ErrUpsert, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrUpsert, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", contracts.ErrUpsert, err)
	}
	return nil
}

// CandidatesByDay returns the persisted candidate set for a trade day,
// preserving the screening rank order
func (r *CandidateRepository) CandidatesByDay(ctx context.Context, tradeDay time.Time, filterID int) ([]contracts.CandidateRow, error) {
	query := `
		SELECT code, trade_day, filter_id, name,
			COALESCE(sector_name, ''), COALESCE(sector_performance, 0),
			previous_close, close, gain, previous_volume, volume, volume_gain,
			last_updated
		FROM feed_daily
		WHERE trade_day = $1 AND filter_id = $2
		ORDER BY sector_performance DESC, sector_name DESC, code
	`

	rows, err := r.pool.Query(ctx, query, contracts.Day(tradeDay), filterID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []contracts.CandidateRow
	for rows.Next() {
		var c contracts.CandidateRow
		err := rows.Scan(
			&c.Code, &c.TradeDay, &c.FilterID, &c.Name,
			&c.SectorName, &c.SectorPerformance,
			&c.PreviousClose, &c.Close, &c.GainPct,
			&c.PreviousVolume, &c.Volume, &c.VolumeGainPct,
			&c.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.TradeDay = contracts.Day(c.TradeDay)
		out = append(out, c)
	}
	return out, rows.Err()
}
