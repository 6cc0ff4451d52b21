package contracts

import "time"

// CandidateRow is one screening hit, unique on (Code, TradeDay, FilterID).
// Reruns for the same key overwrite every derived field; they never
// duplicate and never partially update.
type CandidateRow struct {
	Code     string
	TradeDay time.Time
	FilterID int

	Name              string
	SectorName        string
	SectorPerformance float64 // sector change_rate on the trade day

	PreviousClose float64
	Close         float64
	GainPct       float64

	PreviousVolume int64
	Volume         int64
	VolumeGainPct  float64

	LastUpdated time.Time
}

// ScreenRow is the join of a trade day's bar with its stock master and
// sector daily stat, as consumed by the screening engine.
type ScreenRow struct {
	Bar  DailyBar
	Name string

	SectorCode       string
	SectorName       string
	SectorChangeRate float64
}
