package screening

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screener.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
gain_min_pct: 2.5
min_turnover_rate: 7.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.GainMinPct, 1e-9)
	assert.InDelta(t, 7.0, cfg.MinTurnoverRate, 1e-9)
	// untouched fields keep their defaults
	assert.InDelta(t, 5.0, cfg.GainMaxPct, 1e-9)
	assert.Equal(t, int64(200_000_000), cfg.CirculationCapitalMin)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := writeConfigFile(t, `
gain_min_pct: 2.5
gain_max_pc: 6.0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsInvertedBand(t *testing.T) {
	path := writeConfigFile(t, `
gain_min_pct: 6.0
gain_max_pct: 3.0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gain band inverted")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
