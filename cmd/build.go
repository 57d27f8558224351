package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/loader"
	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/pipeline"
	"github.com/pable/go-ignobel-metrics/internal/report"
	"github.com/pable/go-ignobel-metrics/internal/source"
	"github.com/pable/go-ignobel-metrics/internal/telemetry"
)

var (
	buildWorkers int
	buildNoSave  bool
	buildOut     string
	buildTimings bool
)

var buildCmd = &cobra.Command{
	Use:   "build <events.csv|url> [matches.csv|url]",
	Short: "Run the award pipeline over an event log and store the result",
	Long: `Read the event log (and the match list, used to credit events to the
opposing team), compute every award and store the run. Inputs may be
local paths or HTTP(S) URLs; source_token is sent as a bearer token.

The event CSV needs game_id, period_id, time_seconds, action_id, player_id,
player_name, team_id, team_name, type_name, result_name, start_x, start_y,
end_x, end_y; "_ko" suffixed names are accepted as aliases.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "worker pool size (default from config)")
	buildCmd.Flags().BoolVar(&buildNoSave, "no-save", false, "print results without storing the run")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "also write every output table as CSV into this directory")
	buildCmd.Flags().BoolVar(&buildTimings, "timings", false, "print per-stage wall time")
}

func readInput(ctx context.Context, eventsPath, matchesPath string) (pipeline.Input, error) {
	in := pipeline.Input{EventsPath: eventsPath, MatchesPath: matchesPath}
	src := source.NewClient(cfg.SourceToken)

	f, err := src.Open(ctx, eventsPath)
	if err != nil {
		return in, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()
	if in.Events, err = loader.ReadEvents(f); err != nil {
		return in, fmt.Errorf("read %s: %w", eventsPath, err)
	}

	if matchesPath == "" {
		return in, nil
	}
	m, err := src.Open(ctx, matchesPath)
	if err != nil {
		return in, fmt.Errorf("open matches: %w", err)
	}
	defer m.Close()
	if in.Matches, err = loader.ReadMatches(m); err != nil {
		return in, fmt.Errorf("read %s: %w", matchesPath, err)
	}
	return in, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	var matchesPath string
	if len(args) > 1 {
		matchesPath = args[1]
	}
	in, err := readInput(cmd.Context(), args[0], matchesPath)
	if err != nil {
		return err
	}
	logger.Info("input loaded", zap.Int("events", len(in.Events)), zap.Int("matches", len(in.Matches)))

	workers := cfg.Workers
	if buildWorkers > 0 {
		workers = buildWorkers
	}
	rec := telemetry.New()
	res, err := pipeline.Run(cmd.Context(), in,
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(workers),
		pipeline.WithCatalog(cfg.Catalog()),
		pipeline.WithLeaderboardSize(cfg.LeaderboardSize),
		pipeline.WithRecorder(rec),
	)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if !buildNoSave {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveRun(res); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("run stored", zap.String("run", res.RunID), zap.String("db", dbPath))
	}
	if buildOut != "" {
		if err := writeTables(buildOut, tablesOf(res)); err != nil {
			return err
		}
	}
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics textfile not written", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	report.PrintRunSummary(os.Stdout, res.Summary())
	var top []model.AwardScore
	for _, a := range res.Awards {
		top = append(top, awards.Top(res.Leaderboard, a.ID, cfg.TopN)...)
	}
	report.PrintLeaderboard(os.Stdout, res.Awards, top)
	if buildTimings {
		printTimings(res.Timings)
	}
	return nil
}

func printTimings(timings []pipeline.StageTiming) {
	var total time.Duration
	for _, t := range timings {
		fmt.Fprintf(os.Stdout, "  %-24s %8s\n", t.Stage, t.Duration.Round(time.Microsecond))
		total += t.Duration
	}
	fmt.Fprintf(os.Stdout, "  %-24s %8s\n", "(sum)", total.Round(time.Microsecond))
}
