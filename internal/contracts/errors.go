package contracts

import "errors"

// Error taxonomy for the screening core.
//
// A symbol lacking history (a data gap) is NOT an error: it is recovered
// locally by excluding the symbol, so it has no sentinel here.
var (
	// ErrAggregateComputation: store/range-read failure while computing
	// aggregates. Fatal for the trade day's run; no partial snapshot or
	// candidate set may be published.
	ErrAggregateComputation = errors.New("aggregate computation failed")

	// ErrSnapshotConflict: a concurrent build for the same trade day is
	// already in flight. Transient and retryable.
	ErrSnapshotConflict = errors.New("snapshot build already in progress")

	// ErrUpsert: store-level failure during the candidate upsert. The
	// whole write is rolled back; the run is safe to retry verbatim.
	ErrUpsert = errors.New("candidate upsert failed")
)
