package commands

import (
	"fmt"
	"time"

	"github.com/wonny/tailpick/backend/internal/aggregate"
	"github.com/wonny/tailpick/backend/internal/calendar"
	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/internal/export"
	"github.com/wonny/tailpick/backend/internal/external/eastmoney"
	"github.com/wonny/tailpick/backend/internal/ingest"
	"github.com/wonny/tailpick/backend/internal/screening"
	"github.com/wonny/tailpick/backend/internal/snapshot"
	"github.com/wonny/tailpick/backend/internal/store"
	"github.com/wonny/tailpick/backend/pkg/config"
	"github.com/wonny/tailpick/backend/pkg/database"
	"github.com/wonny/tailpick/backend/pkg/logger"
	"github.com/wonny/tailpick/backend/pkg/metrics"
	"github.com/wonny/tailpick/backend/pkg/redis"
)

// app bundles the wiring every command needs
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	metrics *metrics.Metrics

	bars       *store.BarRepository
	sectors    *store.SectorRepository
	candidates *store.CandidateRepository
	snapshots  *store.SnapshotRepository
}

// newApp loads config, connects the database and builds the
// repositories
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		redis:   rdb,
		metrics: metrics.New(),

		bars:       store.NewBarRepository(db.Pool),
		sectors:    store.NewSectorRepository(db.Pool),
		candidates: store.NewCandidateRepository(db.Pool),
		snapshots:  store.NewSnapshotRepository(db.Pool),
	}, nil
}

// Close releases the database pool and the redis connection
func (a *app) Close() {
	a.db.Close()
	_ = a.redis.Close()
}

// cache returns the typed feed cache, a no-op when redis is disabled
func (a *app) cache() *redis.Cache {
	return redis.NewCache(a.redis, "tailpick")
}

// calendar returns the trading calendar
func (a *app) calendar() *calendar.Calendar {
	return calendar.NewChinaMainland()
}

// snapshotManager wires the snapshot lifecycle over the recompute
// engine
func (a *app) snapshotManager() *snapshot.Manager {
	recompute := aggregate.NewRecompute(a.bars, a.log)
	return snapshot.NewManager(a.snapshots, recompute, a.log)
}

// screener wires the snapshot-first aggregate strategy into the gate
// battery
func (a *app) screener() (*screening.Screener, error) {
	cfg := screening.DefaultConfig()
	if a.cfg.ScreenerConfigPath != "" {
		loaded, err := screening.LoadConfig(a.cfg.ScreenerConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	recompute := aggregate.NewRecompute(a.bars, a.log)
	engine := aggregate.NewSnapshotStrategy(a.snapshots, recompute, a.log)

	return screening.NewScreener(cfg, engine, a.bars, a.candidates, a.log), nil
}

// ingestService wires the eastmoney client into the store
func (a *app) ingestService() *ingest.Service {
	source := eastmoney.NewClient(a.cfg.Eastmoney, a.log)
	return ingest.NewService(source, a.bars, a.sectors, a.metrics, a.log)
}

// reportWriter returns the CSV report writer
func (a *app) reportWriter() *export.CSVWriter {
	return export.NewCSVWriter(a.cfg.ReportDir, a.log)
}

// parseDateFlag reads a --date value, defaulting to today
func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		return contracts.Day(time.Now()), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", raw)
	}
	return contracts.Day(day), nil
}
