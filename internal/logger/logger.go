// Package logger provides a process-wide structured logger for the match engine.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global *zap.Logger
)

// Init builds and installs the global logger. logLevel overrides the
// MATCH_LOG_LEVEL environment variable when non-nil. Safe to call once at
// process start; subsequent calls replace the global logger.
func Init(logLevel *string) error {
	mu.Lock()
	defer mu.Unlock()

	env := os.Getenv("GO_ENV")
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	level := os.Getenv("MATCH_LOG_LEVEL")
	if logLevel != nil {
		level = *logLevel
	}

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	global = built
	return nil
}

// Get returns the global logger, falling back to a development logger if
// Init was never called (e.g. in a unit test that didn't bother).
func Get() *zap.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global, _ = zap.NewDevelopment()
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global.Sync()
	}
	return nil
}

// WithMatchContext returns a logger annotated with match/player identifiers.
func WithMatchContext(matchID, playerID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if matchID != "" {
		fields = append(fields, zap.String("match_id", matchID))
	}
	if playerID != "" {
		fields = append(fields, zap.String("player_id", playerID))
	}
	return Get().With(fields...)
}
