package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

var testDay = contracts.Date(2025, time.March, 14)

// flatWindow builds a descending window of n bars ending at testDay,
// all closes at base and all volumes at vol, one bar per calendar day
func flatWindow(code string, n int, base float64, vol int64) []contracts.DailyBar {
	window := make([]contracts.DailyBar, n)
	for i := range window {
		window[i] = contracts.DailyBar{
			Code:     code,
			TradeDay: testDay.AddDate(0, 0, -i),
			Close:    base,
			Volume:   vol,
		}
	}
	return window
}

func TestBuildEntryFullWindow(t *testing.T) {
	window := flatWindow("600001", contracts.MA250Window, 10.000, 100_000)
	// trade-day bar sits on top of a flat history
	window[0].Close = 10.400
	window[0].Volume = 150_000

	entry, ok := BuildEntry(testDay, window)
	require.True(t, ok)

	assert.Equal(t, "600001", entry.Code)
	assert.Equal(t, testDay, entry.TradeDay)
	assert.Equal(t, contracts.MA250Window, entry.RowCount)

	// (249*10.000 + 10.400) / 250, rounded to 3 places
	assert.InDelta(t, 10.002, entry.MA250, 1e-9)
	assert.InDelta(t, 10.000, entry.Close250DaysAgo, 1e-9)

	// (150000 + 4*100000) / 5
	assert.InDelta(t, 110_000, entry.MA5Volume, 1e-9)

	assert.InDelta(t, 10.000, entry.PrevClose, 1e-9)
	assert.Equal(t, int64(100_000), entry.VolumePrevDay)
}

func TestBuildEntryRequiresExactWindow(t *testing.T) {
	for _, n := range []int{0, 1, 100, contracts.MA250Window - 1, contracts.MA250Window + 1} {
		_, ok := BuildEntry(testDay, flatWindow("600001", n, 10, 100_000))
		assert.Falsef(t, ok, "window of %d rows must not qualify", n)
	}
}

func TestBuildEntryPreviousBridgesCalendarGaps(t *testing.T) {
	window := flatWindow("600001", contracts.MA250Window, 10.000, 100_000)
	// a long suspension before the trade day: the previous bar is nine
	// calendar days back, still window[1]
	for i := 1; i < len(window); i++ {
		window[i].TradeDay = window[i].TradeDay.AddDate(0, 0, -8)
	}
	window[1].Close = 9.750
	window[1].Volume = 80_000

	entry, ok := BuildEntry(testDay, window)
	require.True(t, ok)
	assert.InDelta(t, 9.750, entry.PrevClose, 1e-9)
	assert.Equal(t, int64(80_000), entry.VolumePrevDay)
}

func TestBuildEntryVolumeWindowIsRecentFive(t *testing.T) {
	window := flatWindow("600001", contracts.MA250Window, 10.000, 100_000)
	// older volumes must not leak into the 5-day average
	for i := contracts.MA5VolumeWindow; i < len(window); i++ {
		window[i].Volume = 999_999_999
	}

	entry, ok := BuildEntry(testDay, window)
	require.True(t, ok)
	assert.InDelta(t, 100_000, entry.MA5Volume, 1e-9)
}
