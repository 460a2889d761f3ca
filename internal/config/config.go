// Package config reads process-wide settings from the environment. There is
// deliberately no config file format or third-party config library here: the
// engine has three knobs, and the teacher repository reads its own handful of
// settings (GO_ENV, PORT) straight off os.Getenv rather than reaching for a
// config library.
package config

import (
	"os"
	"strconv"
)

// Settings holds process-wide configuration for the match engine.
type Settings struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
	// PRNGSeed, when non-nil, overrides the random seed new matches would
	// otherwise draw from the system clock. Used by tests and replay tooling.
	PRNGSeed *int64
	// SQLiteDSN is the data source name for the durable repository
	// implementations. Empty means "use the in-memory repositories".
	SQLiteDSN string
}

// Load reads Settings from the environment.
func Load() Settings {
	s := Settings{
		LogLevel:  envOr("MATCH_LOG_LEVEL", "info"),
		SQLiteDSN: os.Getenv("MATCH_SQLITE_DSN"),
	}

	if raw := os.Getenv("MATCH_PRNG_SEED"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			s.PRNGSeed = &seed
		}
	}

	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
