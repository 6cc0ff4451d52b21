package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// BarRepository is the single source of truth accessor for daily bars
// SSOT: stock_daily reads and writes happen here only
type BarRepository struct {
	pool *pgxpool.Pool
}

// NewBarRepository creates a new bar repository
func NewBarRepository(pool *pgxpool.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

const barColumns = `code, trade_day, open, high, low, close,
	volume, COALESCE(turnover, 0), COALESCE(capital, 0), COALESCE(circulation_capital, 0),
	COALESCE(quantity_relative_ratio, 0), COALESCE(turnover_rate, 0)`

func scanBar(row pgx.Row) (contracts.DailyBar, error) {
	var b contracts.DailyBar
	err := row.Scan(
		&b.Code, &b.TradeDay, &b.Open, &b.High, &b.Low, &b.Close,
		&b.Volume, &b.Turnover, &b.Capital, &b.CirculationCapital,
		&b.QuantityRelativeRatio, &b.TurnoverRate,
	)
	if err != nil {
		return contracts.DailyBar{}, err
	}
	b.TradeDay = contracts.Day(b.TradeDay)
	return b, nil
}

// BarsOnDay returns every bar recorded for the trade day
func (r *BarRepository) BarsOnDay(ctx context.Context, tradeDay time.Time) ([]contracts.DailyBar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM stock_daily
		WHERE trade_day = $1
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query, contracts.Day(tradeDay))
	if err != nil {
		return nil, fmt.Errorf("query bars on day: %w", err)
	}
	defer rows.Close()

	var bars []contracts.DailyBar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// RecentBars returns up to limit bars with trade_day <= end, newest first
func (r *BarRepository) RecentBars(ctx context.Context, code string, end time.Time, limit int) ([]contracts.DailyBar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM stock_daily
		WHERE code = $1 AND trade_day <= $2
		ORDER BY trade_day DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, code, contracts.Day(end), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent bars: %w", err)
	}
	defer rows.Close()

	var bars []contracts.DailyBar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// UpsertBars writes bars update-in-place on (code, trade_day)
func (r *BarRepository) UpsertBars(ctx context.Context, bars []contracts.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO stock_daily (
			code, trade_day, open, high, low, close,
			volume, turnover, capital, circulation_capital,
			quantity_relative_ratio, turnover_rate, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (code, trade_day) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			turnover = EXCLUDED.turnover,
			capital = EXCLUDED.capital,
			circulation_capital = EXCLUDED.circulation_capital,
			quantity_relative_ratio = EXCLUDED.quantity_relative_ratio,
			turnover_rate = EXCLUDED.turnover_rate,
			last_updated = now()
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query,
			b.Code, contracts.Day(b.TradeDay),
			contracts.Round3(b.Open), contracts.Round3(b.High),
			contracts.Round3(b.Low), contracts.Round3(b.Close),
			b.Volume, b.Turnover, b.Capital, b.CirculationCapital,
			b.QuantityRelativeRatio, b.TurnoverRate,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert bar: %w", err)
		}
	}
	return nil
}

// UpsertStocks writes stock master rows update-in-place on code
func (r *BarRepository) UpsertStocks(ctx context.Context, stocks []contracts.Stock) error {
	if len(stocks) == 0 {
		return nil
	}

	query := `
		INSERT INTO stock (code, name, market)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			market = EXCLUDED.market
	`

	batch := &pgx.Batch{}
	for _, s := range stocks {
		batch.Queue(query, s.Code, s.Name, s.Market)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range stocks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert stock: %w", err)
		}
	}
	return nil
}

// DayRows returns the screening join for a trade day: bar + stock name +
// the stock's best-performing sector daily stat. A stock can belong to
// several sectors; DISTINCT ON keeps the top change_rate one so each
// symbol screens exactly once.
func (r *BarRepository) DayRows(ctx context.Context, tradeDay time.Time) ([]contracts.ScreenRow, error) {
	query := `
		SELECT DISTINCT ON (sd.code)
			` + barColumnsQualified("sd") + `,
			s.name,
			COALESCE(c.code, ''),
			COALESCE(c.name, ''),
			COALESCE(cd.change_rate, 0)
		FROM stock_daily sd
		JOIN stock s ON s.code = sd.code
		LEFT JOIN sector_stock rcs ON rcs.code = sd.code
		LEFT JOIN sector c ON c.code = rcs.sector_code
		LEFT JOIN sector_daily cd
			ON cd.sector_code = c.code AND cd.trade_day = sd.trade_day
		WHERE sd.trade_day = $1
		ORDER BY sd.code, cd.change_rate DESC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, contracts.Day(tradeDay))
	if err != nil {
		return nil, fmt.Errorf("query day rows: %w", err)
	}
	defer rows.Close()

	var out []contracts.ScreenRow
	for rows.Next() {
		var sr contracts.ScreenRow
		b := &sr.Bar
		err := rows.Scan(
			&b.Code, &b.TradeDay, &b.Open, &b.High, &b.Low, &b.Close,
			&b.Volume, &b.Turnover, &b.Capital, &b.CirculationCapital,
			&b.QuantityRelativeRatio, &b.TurnoverRate,
			&sr.Name, &sr.SectorCode, &sr.SectorName, &sr.SectorChangeRate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan day row: %w", err)
		}
		b.TradeDay = contracts.Day(b.TradeDay)
		out = append(out, sr)
	}
	return out, rows.Err()
}

func barColumnsQualified(alias string) string {
	return alias + `.code, ` + alias + `.trade_day, ` + alias + `.open, ` + alias + `.high, ` +
		alias + `.low, ` + alias + `.close, ` + alias + `.volume, COALESCE(` + alias + `.turnover, 0), ` +
		`COALESCE(` + alias + `.capital, 0), COALESCE(` + alias + `.circulation_capital, 0), ` +
		`COALESCE(` + alias + `.quantity_relative_ratio, 0), COALESCE(` + alias + `.turnover_rate, 0)`
}
