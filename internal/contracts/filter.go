package contracts

import "strings"

// StockFilter identifies a screening strategy. Candidate rows are keyed
// by filter id so several strategies can coexist in one table.
type StockFilter int

const (
	// FilterTailScraper is the eight-gate momentum-breakout battery
	FilterTailScraper StockFilter = 1
)

var filterNames = map[StockFilter]string{
	FilterTailScraper: "TAIL_SCRAPER",
}

// ID returns the numeric filter id stored on candidate rows
func (f StockFilter) ID() int {
	return int(f)
}

// CanonicalName returns the registry name, e.g. "TAIL_SCRAPER"
func (f StockFilter) CanonicalName() string {
	return filterNames[f]
}

// Name returns the kebab-case display name, e.g. "tail-scraper"
func (f StockFilter) Name() string {
	return strings.ReplaceAll(strings.ToLower(f.CanonicalName()), "_", "-")
}
