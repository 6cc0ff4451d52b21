package contracts

import "time"

// MA250Window is the trailing close window length. A symbol surfaces in
// a snapshot only when the window is exactly full.
const MA250Window = 250

// MA5VolumeWindow is the trailing volume window length. Unlike the close
// window it has no minimum-row requirement.
const MA5VolumeWindow = 5

// AggregateEntry holds the derived rolling values for one symbol on one
// trade day. Present in a snapshot iff RowCount == MA250Window.
type AggregateEntry struct {
	Code     string
	TradeDay time.Time

	// close window
	MA250           float64 // mean close over the trailing 250 bars, incl. trade day
	Close250DaysAgo float64 // close of the oldest bar in the window
	RowCount        int     // bars actually found, must be 250 to qualify

	// volume window
	MA5Volume     float64 // mean volume over up to 5 trailing bars, incl. trade day
	VolumePrevDay int64   // volume of the bar strictly before trade day

	// previous values bridge data gaps: they come from the nearest
	// strictly-prior eligible bar, not "yesterday's row"
	PrevClose float64
}

// Qualified reports whether the close window was exactly full
func (e AggregateEntry) Qualified() bool {
	return e.RowCount == MA250Window
}

// AggregateResult is the output of one ComputeAggregates invocation
type AggregateResult struct {
	TradeDay time.Time
	Entries  map[string]AggregateEntry

	// RebuildAdvised is set when the snapshot strategy had to fall back
	// to recompute because no valid snapshot existed for the trade day.
	RebuildAdvised bool
}

// SnapshotState is the lifecycle state of a trade day's snapshot
type SnapshotState string

const (
	SnapshotAbsent     SnapshotState = "absent"
	SnapshotBuilding   SnapshotState = "building"
	SnapshotValid      SnapshotState = "valid"
	SnapshotSuperseded SnapshotState = "superseded"
)
