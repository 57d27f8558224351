package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/telemetry"
)

// Option configures a Run.
type Option func(*runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithWorkers bounds the worker pool used for the parallel stages.
func WithWorkers(n int) Option {
	return func(r *runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCatalog sets the awards to rank. The default is awards.Defaults().
func WithCatalog(c *awards.Catalog) Option {
	return func(r *runner) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithLeaderboardSize sets the deepest rank kept on the leaderboard.
func WithLeaderboardSize(n int) Option {
	return func(r *runner) {
		if n > 0 {
			r.boardSize = n
		}
	}
}

// WithRecorder records stage timings and table sizes.
func WithRecorder(rec *telemetry.Recorder) Option {
	return func(r *runner) { r.rec = rec }
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		if now != nil {
			r.now = now
		}
	}
}
