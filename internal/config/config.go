package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	HTTPHost string
	HTTPPort int

	// Simulation defaults
	DefaultSpeed string // "realtime", "fast", "instant"
	StoppageBias int    // max extra minutes per half, 0..5
	Commentary   bool
	AutoLineup   bool

	// Results sink
	ResultsDBPath string

	// Engine tuning overrides (optional YAML)
	TuningPath string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPHost: envStr("MATCHDAY_HOST", "0.0.0.0"),
		HTTPPort: envInt("MATCHDAY_PORT", 8090),

		DefaultSpeed: envStr("MATCHDAY_SPEED", "realtime"),
		StoppageBias: envInt("MATCHDAY_STOPPAGE_BIAS", 5),
		Commentary:   envBool("MATCHDAY_COMMENTARY", true),
		AutoLineup:   envBool("MATCHDAY_AUTO_LINEUP", true),

		ResultsDBPath: envStr("MATCHDAY_RESULTS_DB", "data/results.db"),
		TuningPath:    envStr("MATCHDAY_TUNING_PATH", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}
