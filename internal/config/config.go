// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CandidateQueueSize bounds the in-memory candidate queue.
	CandidateQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxDeckLimit caps GET /deck?limit.
	MaxDeckLimit int `koanf:"max_deck_limit"`

	// MaxDistanceMiles is the distance preference applied when a seeker
	// profile does not carry its own.
	MaxDistanceMiles float64 `koanf:"max_distance_miles"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		CandidateQueueSize: 100_000,
		WorkerCount:        runtime.NumCPU() * 10,
		DedupeSize:         50_000,
		MaxDeckLimit:       100,
		MaxDistanceMiles:   50_000,
	}
}
