// Package ingest pulls end-of-day market data from the source and
// lands it in the store. Ineligible rows are rejected here; everything
// downstream assumes close and volume are populated.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
	"github.com/wonny/tailpick/backend/pkg/metrics"
)

// MarketSource is the upstream data contract
type MarketSource interface {
	FetchSpot(ctx context.Context, tradeDay time.Time) ([]contracts.DailyBar, []contracts.Stock, error)
	FetchBoards(ctx context.Context, tradeDay time.Time) ([]contracts.SectorDailyStat, []contracts.Sector, error)
	FetchBoardMembers(ctx context.Context, boardCode string) ([]string, error)
}

// StockStore lands bars and the stock master
type StockStore interface {
	contracts.BarWriter
	UpsertStocks(ctx context.Context, stocks []contracts.Stock) error
}

// SectorStore lands boards, memberships and sector stats
type SectorStore interface {
	contracts.SectorWriter
	UpsertSectors(ctx context.Context, sectors []contracts.Sector) error
	UpsertMemberships(ctx context.Context, sectorCode string, stockCodes []string) error
}

// Service runs the daily ingestion
type Service struct {
	source  MarketSource
	stocks  StockStore
	sectors SectorStore
	metrics *metrics.Metrics
	logger  *logger.Logger

	// refreshing memberships hits one request per board; off by default
	withMemberships bool
}

// NewService creates the ingestion service
func NewService(source MarketSource, stocks StockStore, sectors SectorStore, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		source:  source,
		stocks:  stocks,
		sectors: sectors,
		metrics: m,
		logger:  log,
	}
}

// WithMemberships enables the per-board membership refresh
func (s *Service) WithMemberships(enabled bool) *Service {
	s.withMemberships = enabled
	return s
}

// Run ingests one trade day: the stock spot list, the board list and
// optionally the board memberships. Rerunning for the same day
// overwrites in place.
func (s *Service) Run(ctx context.Context, tradeDay time.Time) error {
	day := contracts.Day(tradeDay)

	bars, stocks, err := s.source.FetchSpot(ctx, day)
	if err != nil {
		return err
	}

	eligible := bars[:0]
	for _, b := range bars {
		if b.Eligible() {
			eligible = append(eligible, b)
		}
	}

	if err := s.stocks.UpsertStocks(ctx, stocks); err != nil {
		return fmt.Errorf("upsert stocks: %w", err)
	}
	if err := s.stocks.UpsertBars(ctx, eligible); err != nil {
		return fmt.Errorf("upsert bars: %w", err)
	}
	s.metrics.IngestedBars.Add(float64(len(eligible)))

	stats, sectors, err := s.source.FetchBoards(ctx, day)
	if err != nil {
		return err
	}
	if err := s.sectors.UpsertSectors(ctx, sectors); err != nil {
		return fmt.Errorf("upsert sectors: %w", err)
	}
	if err := s.sectors.UpsertSectorStats(ctx, stats); err != nil {
		return fmt.Errorf("upsert sector stats: %w", err)
	}

	if s.withMemberships {
		if err := s.refreshMemberships(ctx, sectors); err != nil {
			return err
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"bars":      len(eligible),
		"stocks":    len(stocks),
		"boards":    len(sectors),
	}).Info("Ingestion finished")

	return nil
}

func (s *Service) refreshMemberships(ctx context.Context, sectors []contracts.Sector) error {
	for _, sector := range sectors {
		codes, err := s.source.FetchBoardMembers(ctx, sector.Code)
		if err != nil {
			return fmt.Errorf("board members %s: %w", sector.Code, err)
		}
		if len(codes) == 0 {
			continue
		}
		if err := s.sectors.UpsertMemberships(ctx, sector.Code, codes); err != nil {
			return fmt.Errorf("upsert memberships %s: %w", sector.Code, err)
		}
	}
	return nil
}
