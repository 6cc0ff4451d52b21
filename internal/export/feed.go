// Package export renders persisted candidates into outward-facing
// artifacts: the feed record shape and the daily CSV report.
package export

import (
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// FeedRecord is the externalized candidate shape. Field names are the
// stable consumer contract; renaming one is a breaking change.
type FeedRecord struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	SectorName        string  `json:"sector_name"`
	SectorPerformance float64 `json:"sector_performance"`
	PreviousClose     float64 `json:"previous_close"`
	Close             float64 `json:"close"`
	GainPct           float64 `json:"gain_pct"`
	PreviousVolume    int64   `json:"previous_volume"`
	Volume            int64   `json:"volume"`
	VolumeGainPct     float64 `json:"volume_gain_pct"`
	LastUpdated       string  `json:"last_updated"`
}

// ToFeedRecord converts one candidate row, preserving rank order at the
// slice level
func ToFeedRecord(row contracts.CandidateRow) FeedRecord {
	return FeedRecord{
		Code:              row.Code,
		Name:              row.Name,
		SectorName:        row.SectorName,
		SectorPerformance: row.SectorPerformance,
		PreviousClose:     row.PreviousClose,
		Close:             row.Close,
		GainPct:           row.GainPct,
		PreviousVolume:    row.PreviousVolume,
		Volume:            row.Volume,
		VolumeGainPct:     row.VolumeGainPct,
		LastUpdated:       row.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// ToFeedRecords converts a ranked slice in place order
func ToFeedRecords(rows []contracts.CandidateRow) []FeedRecord {
	out := make([]FeedRecord, len(rows))
	for i, row := range rows {
		out[i] = ToFeedRecord(row)
	}
	return out
}
