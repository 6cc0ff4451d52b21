package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

func TestIsTradingDay(t *testing.T) {
	cal := NewChinaMainland()

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"regular weekday", contracts.Date(2025, time.February, 7), true},
		{"saturday", contracts.Date(2024, time.August, 3), false},
		{"sunday", contracts.Date(2024, time.August, 4), false},
		{"mid-autumn holiday on a weekday", contracts.Date(2024, time.September, 17), false},
		{"chinese new year eve week", contracts.Date(2025, time.February, 4), false},
		{"cny make-up saturday stays closed", contracts.Date(2025, time.February, 8), false},
		{"day after cny holidays", contracts.Date(2025, time.February, 5), true},
		{"national day on weekday", contracts.Date(2025, time.October, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsTradingDay(tt.day))
		})
	}
}

func TestPrevTradingDay(t *testing.T) {
	cal := NewChinaMainland()

	// Friday 2025-02-07 is open; the previous trading day inclusive is itself
	friday := contracts.Date(2025, time.February, 7)
	assert.Equal(t, friday, cal.PrevTradingDay(friday, true))

	// exclusive walks back to Thursday
	assert.Equal(t, contracts.Date(2025, time.February, 6), cal.PrevTradingDay(friday, false))

	// Monday walks back across the weekend
	monday := contracts.Date(2025, time.February, 10)
	assert.Equal(t, friday, cal.PrevTradingDay(monday, false))

	// walking back from the middle of the CNY break lands before the break
	cnyBreak := contracts.Date(2025, time.February, 2)
	assert.Equal(t, contracts.Date(2025, time.January, 27), cal.PrevTradingDay(cnyBreak, true))
}

func TestNextTradingDay(t *testing.T) {
	cal := NewChinaMainland()

	friday := contracts.Date(2025, time.February, 7)

	// inclusive on a trading day returns the day itself
	assert.Equal(t, friday, cal.NextTradingDay(friday, true))

	// exclusive jumps the weekend
	assert.Equal(t, contracts.Date(2025, time.February, 10), cal.NextTradingDay(friday, false))

	// crossing the national day break
	assert.Equal(t,
		contracts.Date(2025, time.October, 9),
		cal.NextTradingDay(contracts.Date(2025, time.October, 1), true))
}

func TestPrevNextRoundTrip(t *testing.T) {
	cal := NewChinaMainland()

	// across consecutive trading days the walk inverts exactly
	tuesday := contracts.Date(2025, time.February, 11)
	assert.Equal(t, tuesday, cal.PrevTradingDay(cal.NextTradingDay(tuesday, false), false))

	// across a non-trading boundary the round trip may legitimately not
	// return the origin: starting from a Saturday, next lands on Monday
	// and prev comes back to Friday
	saturday := contracts.Date(2025, time.February, 8)
	roundTrip := cal.PrevTradingDay(cal.NextTradingDay(saturday, false), false)
	assert.Equal(t, contracts.Date(2025, time.February, 7), roundTrip)
	assert.NotEqual(t, saturday, roundTrip)
}

func TestCoverage(t *testing.T) {
	cal := NewChinaMainland()

	from, to := cal.Coverage()
	assert.Equal(t, contracts.Date(2023, time.January, 1), from)
	assert.Equal(t, contracts.Date(2025, time.December, 31), to)

	assert.True(t, cal.Covers(contracts.Date(2024, time.June, 3)))
	assert.False(t, cal.Covers(contracts.Date(2026, time.January, 5)))
	assert.False(t, cal.Covers(contracts.Date(2022, time.December, 30)))
}
