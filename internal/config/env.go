package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys read by the CLI.
const (
	EnvOutputDir    = "LAUNCHTRACK_OUTPUT_DIR"
	EnvDispersions  = "LAUNCHTRACK_DISPERSIONS"
	EnvRadiusDeg    = "LAUNCHTRACK_RADIUS_DEG"
	EnvPoints       = "LAUNCHTRACK_POINTS"
	EnvGreptimeHost = "GREPTIMEDB_ENDPOINT"
	EnvGreptimeDB   = "GREPTIMEDB_DATABASE"
	EnvGreptimeTbl  = "GREPTIMEDB_TABLE"
	EnvStationsURL  = "SATNOGS_STATIONS_URL"
	EnvTLEURL       = "CELESTRAK_TLE_URL"
)

// LoadEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// String returns the value of key or def when unset.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns key parsed as an int, or def when unset or malformed.
func Int(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns key parsed as a float64, or def when unset or malformed.
func Float(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
