// Package aggregate computes the per-symbol rolling values the screening
// battery gates on: the 250-day close moving average, the close 250
// trading days back, the 5-day volume moving average and the
// strictly-prior close/volume.
//
// Two interchangeable strategies sit behind the Engine interface: a
// recompute-from-raw-history strategy and a snapshot strategy serving a
// prebuilt materialization. Both derive entries through BuildEntry, so
// their outputs agree by construction on fully-windowed symbols.
package aggregate

import (
	"context"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// Engine is the aggregate computation contract
type Engine interface {
	ComputeAggregates(ctx context.Context, tradeDay time.Time) (*contracts.AggregateResult, error)
}

// BuildEntry derives one symbol's aggregate entry from its descending
// bar window ending at the trade day. window[0] must be the trade day's
// own bar. ok is false when the close window is not exactly full; such
// symbols are absent from the result (a data gap, not an error).
func BuildEntry(tradeDay time.Time, window []contracts.DailyBar) (contracts.AggregateEntry, bool) {
	if len(window) == 0 {
		return contracts.AggregateEntry{}, false
	}

	entry := contracts.AggregateEntry{
		Code:     window[0].Code,
		TradeDay: contracts.Day(tradeDay),
		RowCount: len(window),
	}

	var closeSum float64
	for _, b := range window {
		closeSum += b.Close
	}
	entry.MA250 = contracts.Round3(closeSum / float64(len(window)))
	entry.Close250DaysAgo = window[len(window)-1].Close

	// the volume window shares the close window's tail: up to 5 most
	// recent bars including the trade day, no minimum-row requirement
	volN := contracts.MA5VolumeWindow
	if len(window) < volN {
		volN = len(window)
	}
	var volSum float64
	for _, b := range window[:volN] {
		volSum += float64(b.Volume)
	}
	entry.MA5Volume = volSum / float64(volN)

	if entry.RowCount != contracts.MA250Window {
		return contracts.AggregateEntry{}, false
	}

	// a full window guarantees a strictly-prior bar; "previous" values
	// bridge calendar gaps by construction
	prev := window[1]
	entry.PrevClose = prev.Close
	entry.VolumePrevDay = prev.Volume

	return entry, true
}
