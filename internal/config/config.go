// Package config defines the ignobel configuration and its loader.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/model"
)

// Config is the process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogEncoding is "console" or "json".
	LogEncoding string `koanf:"log_encoding"`

	// DBPath is the SQLite file holding stored runs.
	DBPath string `koanf:"db_path"`

	// Workers bounds the pipeline's worker pool.
	Workers int `koanf:"workers"`

	// LeaderboardSize is the deepest rank kept per award.
	LeaderboardSize int `koanf:"leaderboard_size"`

	// TopN is how many placings the build summary prints per award.
	TopN int `koanf:"top_n"`

	// Addr is the HTTP listen address for serve.
	Addr string `koanf:"addr"`

	// MetricsFile, when set, receives a Prometheus text dump after each build.
	MetricsFile string `koanf:"metrics_file"`

	// SourceToken is sent as a bearer token when build reads inputs over HTTP.
	SourceToken string `koanf:"source_token"`

	// Awards overrides the built-in award list when non-empty.
	Awards []model.Award `koanf:"awards"`

	catalog *awards.Catalog
}

// DefaultDBPath is ~/.ignobel/ignobel.db, or a relative path when the home
// directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ignobel", "ignobel.db")
	}
	return filepath.Join(home, ".ignobel", "ignobel.db")
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogEncoding:     "console",
		DBPath:          DefaultDBPath(),
		Workers:         runtime.NumCPU(),
		LeaderboardSize: awards.DefaultLeaderboardSize,
		TopN:            3,
		Addr:            ":8090",
	}
}

// Catalog returns the validated award catalogue. It is nil until Validate
// has succeeded.
func (c *Config) Catalog() *awards.Catalog { return c.catalog }
