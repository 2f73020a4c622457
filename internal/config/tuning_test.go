package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuning(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, time.Second, tuning.RealtimeDelay())
	assert.Equal(t, 300*time.Millisecond, tuning.FastDelay())
	assert.Equal(t, 5, tuning.StoppageBias)
	assert.Equal(t, 5, tuning.MaxSubstitutions)
	assert.Equal(t, 50*time.Millisecond, tuning.TickBudget())
	assert.Equal(t, 10*time.Minute, tuning.StreamBudget())
}

func TestLoadTuningEmptyPathKeepsDefaults(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}

func TestLoadTuningMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pacing:
  fast_ms: 150
stoppage_bias: 3
ignition_scale: 1.4
`), 0o644))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, tuning.FastDelay())
	assert.Equal(t, time.Second, tuning.RealtimeDelay(), "untouched keys keep defaults")
	assert.Equal(t, 3, tuning.StoppageBias)
	assert.InDelta(t, 1.4, tuning.IgnitionScale, 0.001)
}

func TestLoadTuningClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stoppage_bias: 99
max_substitutions: 12
ignition_scale: -2
`), 0o644))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 5, tuning.StoppageBias)
	assert.Equal(t, 5, tuning.MaxSubstitutions)
	assert.InDelta(t, 1.0, tuning.IgnitionScale, 0.001)
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
