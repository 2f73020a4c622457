package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the engine knobs that operators may override per deployment.
// Everything has a compiled-in default; the YAML file is optional.
type Tuning struct {
	Pacing struct {
		RealtimeMs int `yaml:"realtime_ms"`
		FastMs     int `yaml:"fast_ms"`
	} `yaml:"pacing"`

	StoppageBias     int     `yaml:"stoppage_bias"`      // max extra minutes per half
	IgnitionScale    float64 `yaml:"ignition_scale"`     // multiplier on per-minute event probability
	MaxSubstitutions int     `yaml:"max_substitutions"`  // per side
	TickBudgetMs     int     `yaml:"tick_budget_ms"`     // hard per-tick compute budget
	StreamBudgetMin  int     `yaml:"stream_budget_min"`  // whole-stream wall clock cap
}

func DefaultTuning() Tuning {
	var t Tuning
	t.Pacing.RealtimeMs = 1000
	t.Pacing.FastMs = 300
	t.StoppageBias = 5
	t.IgnitionScale = 1.0
	t.MaxSubstitutions = 5
	t.TickBudgetMs = 50
	t.StreamBudgetMin = 10
	return t
}

// LoadTuning reads the YAML override file and merges it over the defaults.
// A missing path returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning: %w", err)
	}

	if t.StoppageBias < 0 {
		t.StoppageBias = 0
	}
	if t.StoppageBias > 5 {
		t.StoppageBias = 5
	}
	if t.MaxSubstitutions <= 0 || t.MaxSubstitutions > 5 {
		t.MaxSubstitutions = 5
	}
	if t.IgnitionScale <= 0 {
		t.IgnitionScale = 1.0
	}
	return t, nil
}

func (t Tuning) RealtimeDelay() time.Duration { return time.Duration(t.Pacing.RealtimeMs) * time.Millisecond }
func (t Tuning) FastDelay() time.Duration     { return time.Duration(t.Pacing.FastMs) * time.Millisecond }
func (t Tuning) TickBudget() time.Duration    { return time.Duration(t.TickBudgetMs) * time.Millisecond }
func (t Tuning) StreamBudget() time.Duration  { return time.Duration(t.StreamBudgetMin) * time.Minute }
