package screening

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the gate thresholds. Immutable after construction; it is
// passed into the screener, never read from process-wide state.
type Config struct {
	// day-over-day gain band, inclusive both ends
	GainMinPct float64 `yaml:"gain_min_pct"`
	GainMaxPct float64 `yaml:"gain_max_pct"`

	MinQuantityRelativeRatio float64 `yaml:"min_quantity_relative_ratio"`

	// strict lower bound
	MinTurnoverRate float64 `yaml:"min_turnover_rate"`

	// circulation capital band, inclusive both ends
	CirculationCapitalMin int64 `yaml:"circulation_capital_min"`
	CirculationCapitalMax int64 `yaml:"circulation_capital_max"`
}

// DefaultConfig returns the stock tail-scraper thresholds
func DefaultConfig() Config {
	return Config{
		GainMinPct:               3.0,
		GainMaxPct:               5.0,
		MinQuantityRelativeRatio: 1.0,
		MinTurnoverRate:          5.0,
		CirculationCapitalMin:    200_000_000,    // 2亿
		CirculationCapitalMax:    20_000_000_000, // 200亿
	}
}

// LoadConfig reads thresholds from a YAML file. Unknown fields fail
// fast so threshold typos never screen silently with defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read screener config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse screener config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks threshold sanity
func (c Config) Validate() error {
	if c.GainMinPct > c.GainMaxPct {
		return fmt.Errorf("gain band inverted: min %.2f > max %.2f", c.GainMinPct, c.GainMaxPct)
	}
	if c.CirculationCapitalMin > c.CirculationCapitalMax {
		return fmt.Errorf("capital band inverted: min %d > max %d",
			c.CirculationCapitalMin, c.CirculationCapitalMax)
	}
	if c.MinTurnoverRate < 0 {
		return fmt.Errorf("negative turnover cutoff: %.2f", c.MinTurnoverRate)
	}
	return nil
}
