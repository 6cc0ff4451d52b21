package contracts

import (
	"math"
	"time"
)

// DailyBar is one end-of-day bar for a stock.
// Unique on (Code, TradeDay). Rows missing close or volume are rejected
// at the ingestion boundary and never reach the store, so both fields
// are always populated here.
type DailyBar struct {
	Code     string
	TradeDay time.Time

	// price, 3 decimal places
	Open  float64
	High  float64
	Low   float64
	Close float64

	// trade
	Volume                int64
	Turnover              int64
	Capital               int64
	CirculationCapital    int64
	QuantityRelativeRatio float64
	TurnoverRate          float64
}

// Eligible reports whether the bar may feed aggregates and filters
func (b DailyBar) Eligible() bool {
	return b.Close > 0 && b.Volume > 0
}

// SectorDailyStat is one end-of-day aggregate for a sector board.
// Unique on (SectorCode, TradeDay). Join input for ranking only, never
// for gating.
type SectorDailyStat struct {
	SectorCode string
	TradeDay   time.Time

	Price        float64
	Change       float64
	ChangeRate   float64
	Capital      int64
	TurnoverRate float64
	GainerCount  int
	LoserCount   int
	TopGainer    string
	TopGain      float64
}

// Stock is the stock master record
type Stock struct {
	Code   string
	Name   string
	Market string
}

// Sector is the sector/board master record
type Sector struct {
	Code string
	Name string
	Type string // 'c' concept, 'i' industry, 'b' board, 'x' index
}

// Day truncates t to a calendar date in UTC. All trade-day values are
// normalized through this before being used as map keys or SQL params.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized trade-day value
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Round3 rounds a price to 3 decimal places, half away from zero.
// Matches the Numeric(10,3) columns in the store.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
