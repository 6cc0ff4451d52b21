// Package calendar answers "is the market open" for mainland China
// exchanges. It is a pure lookup over a curated holiday table; there are
// no side effects and no clock reads.
package calendar

import (
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// Calendar holds an immutable holiday set and its coverage range.
// Construct once and inject; never mutate after construction.
type Calendar struct {
	holidays map[time.Time]struct{}
	from     time.Time
	to       time.Time
}

// New builds a calendar from an explicit holiday list and coverage range
func New(holidays []time.Time, from, to time.Time) *Calendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[contracts.Day(h)] = struct{}{}
	}
	return &Calendar{
		holidays: set,
		from:     contracts.Day(from),
		to:       contracts.Day(to),
	}
}

// NewChinaMainland returns the calendar for the curated 2023-2025
// mainland holiday table
func NewChinaMainland() *Calendar {
	return New(
		chinaMainlandHolidays,
		contracts.Date(2023, time.January, 1),
		contracts.Date(2025, time.December, 31),
	)
}

// Coverage returns the inclusive date range the holiday table is curated
// for. IsTradingDay answers are undefined outside this range; callers
// that accept user dates should check first.
func (c *Calendar) Coverage() (from, to time.Time) {
	return c.from, c.to
}

// Covers reports whether d falls inside the curated range
func (c *Calendar) Covers(d time.Time) bool {
	d = contracts.Day(d)
	return !d.Before(c.from) && !d.After(c.to)
}

// IsTradingDay reports whether the market is open on d:
// a weekday that is not in the holiday table.
func (c *Calendar) IsTradingDay(d time.Time) bool {
	d = contracts.Day(d)
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// PrevTradingDay walks backward one calendar day at a time until a
// trading day is found. inclusive=false steps at least one day before
// testing.
func (c *Calendar) PrevTradingDay(d time.Time, inclusive bool) time.Time {
	d = contracts.Day(d)
	if !inclusive {
		d = d.AddDate(0, 0, -1)
	}
	for !c.IsTradingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextTradingDay walks forward one calendar day at a time until a
// trading day is found. inclusive=false steps at least one day before
// testing.
func (c *Calendar) NextTradingDay(d time.Time, inclusive bool) time.Time {
	d = contracts.Day(d)
	if !inclusive {
		d = d.AddDate(0, 0, 1)
	}
	for !c.IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
