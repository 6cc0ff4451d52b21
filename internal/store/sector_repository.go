package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// SectorRepository persists sector masters, memberships and daily stats
// SSOT: sector, sector_stock and sector_daily writes happen here only
type SectorRepository struct {
	pool *pgxpool.Pool
}

// NewSectorRepository creates a new sector repository
func NewSectorRepository(pool *pgxpool.Pool) *SectorRepository {
	return &SectorRepository{pool: pool}
}

// UpsertSectors writes sector master rows update-in-place on code
func (r *SectorRepository) UpsertSectors(ctx context.Context, sectors []contracts.Sector) error {
	if len(sectors) == 0 {
		return nil
	}

	query := `
		INSERT INTO sector (code, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type
	`

	batch := &pgx.Batch{}
	for _, s := range sectors {
		batch.Queue(query, s.Code, s.Name, s.Type)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range sectors {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert sector: %w", err)
		}
	}
	return nil
}

// UpsertMemberships writes (sector_code, code) join rows
func (r *SectorRepository) UpsertMemberships(ctx context.Context, sectorCode string, stockCodes []string) error {
	if len(stockCodes) == 0 {
		return nil
	}

	query := `
		INSERT INTO sector_stock (sector_code, code)
		VALUES ($1, $2)
		ON CONFLICT (sector_code, code) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, code := range stockCodes {
		batch.Queue(query, sectorCode, code)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range stockCodes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert membership: %w", err)
		}
	}
	return nil
}

// UpsertSectorStats writes sector daily stats update-in-place on
// (sector_code, trade_day)
func (r *SectorRepository) UpsertSectorStats(ctx context.Context, stats []contracts.SectorDailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	query := `
		INSERT INTO sector_daily (
			sector_code, trade_day, price, change, change_rate,
			capital, turnover_rate, gainer_count, loser_count,
			top_gainer, top_gain, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (sector_code, trade_day) DO UPDATE SET
			price = EXCLUDED.price,
			change = EXCLUDED.change,
			change_rate = EXCLUDED.change_rate,
			capital = EXCLUDED.capital,
			turnover_rate = EXCLUDED.turnover_rate,
			gainer_count = EXCLUDED.gainer_count,
			loser_count = EXCLUDED.loser_count,
			top_gainer = EXCLUDED.top_gainer,
			top_gain = EXCLUDED.top_gain,
			last_updated = now()
	`

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(query,
			s.SectorCode, contracts.Day(s.TradeDay),
			contracts.Round3(s.Price), contracts.Round3(s.Change), s.ChangeRate,
			s.Capital, s.TurnoverRate, s.GainerCount, s.LoserCount,
			s.TopGainer, s.TopGain,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range stats {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert sector stat: %w", err)
		}
	}
	return nil
}
