package screening

import (
	"strings"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

// Gate names as they appear in per-run rejection counts
const (
	gateGainBand    = "gain_band"
	gateQuantity    = "quantity_rel"
	gateTurnover    = "turnover_rate"
	gateCapitalBand = "capital_band"
	gateVolumeRamp  = "volume_ramp"
	gateName        = "name"
	gateLowOverMA   = "low_over_ma"
	gateGreenCandle = "green_candle"
)

// gainPct is the day-over-day close gain in percent, against the
// strictly-prior close from the aggregate entry
func gainPct(close, prevClose float64) float64 {
	return (close/prevClose - 1) * 100
}

// volumeGainPct is the day-over-day volume gain in percent
func volumeGainPct(volume, prevVolume int64) float64 {
	return (float64(volume)/float64(prevVolume) - 1) * 100
}

// checkGates runs the full battery against one joined row and its
// aggregate entry. Returns "" on a pass, otherwise the name of the
// first failing gate. Gates are independent; the order below only
// decides which rejection gets counted.
func (s *Screener) checkGates(row contracts.ScreenRow, entry contracts.AggregateEntry) string {
	bar := row.Bar
	cfg := s.config

	// gain inside the momentum band, both ends inclusive
	gain := gainPct(bar.Close, entry.PrevClose)
	if gain < cfg.GainMinPct || gain > cfg.GainMaxPct {
		return gateGainBand
	}

	// quantity relative ratio at or above the floor
	if bar.QuantityRelativeRatio < cfg.MinQuantityRelativeRatio {
		return gateQuantity
	}

	// turnover rate strictly above the floor
	if bar.TurnoverRate <= cfg.MinTurnoverRate {
		return gateTurnover
	}

	// circulation capital inside the band, both ends inclusive
	if bar.CirculationCapital < cfg.CirculationCapitalMin ||
		bar.CirculationCapital > cfg.CirculationCapitalMax {
		return gateCapitalBand
	}

	// strictly accelerating volume, prev < 5-day average < today
	if !(float64(entry.VolumePrevDay) < entry.MA5Volume &&
		entry.MA5Volume < float64(bar.Volume)) {
		return gateVolumeRamp
	}

	// exclude special-treatment and delisting-risk names
	upper := strings.ToUpper(row.Name)
	if strings.Contains(upper, "ST") || strings.Contains(row.Name, "*") {
		return gateName
	}

	// the day's low held strictly above the 250-day average
	if bar.Low <= entry.MA250 {
		return gateLowOverMA
	}

	// green candle, close strictly above open
	if bar.Close <= bar.Open {
		return gateGreenCandle
	}

	return ""
}
