// Package pipeline runs every stage from raw events to ranked awards and
// zone profiles.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pable/go-ignobel-metrics/internal/aggregator"
	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/preprocess"
	"github.com/pable/go-ignobel-metrics/internal/profile"
	"github.com/pable/go-ignobel-metrics/internal/telemetry"
	"github.com/pable/go-ignobel-metrics/internal/zone"
)

// Input is one batch of raw tables.
type Input struct {
	Events      []model.Event
	Matches     []model.Match
	EventsPath  string
	MatchesPath string
}

// StageTiming is the wall time of one stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Result holds every table a run produces.
type Result struct {
	RunID       string
	CreatedAt   time.Time
	EventsPath  string
	MatchesPath string
	EventCount  int
	MatchCount  int
	Awards      []model.Award

	Defense  []model.PlayerAggregate
	Attack   []model.AttackAggregate
	Panic    []model.PanicCount
	Halves   []model.HalfRates
	Turnover []model.TurnoverCount

	Metrics     []model.PlayerMetrics
	Scores      []model.AwardScore
	Leaderboard []model.AwardScore
	Profiles    []model.PlayerProfile
	Teams       []model.TeamStats

	TeamZones        []model.TeamZone
	TeamZonesAgainst []model.TeamZone
	PlayerZones      []model.PlayerZone
	LeagueZones      []model.LeagueZone

	Timings []StageTiming
}

// Summary describes the run for the runs table.
func (r *Result) Summary() model.RunSummary {
	teams := make(map[string]struct{})
	for _, t := range r.Teams {
		teams[t.TeamName] = struct{}{}
	}
	return model.RunSummary{
		ID:          r.RunID,
		CreatedAt:   r.CreatedAt,
		EventsPath:  r.EventsPath,
		MatchesPath: r.MatchesPath,
		Events:      r.EventCount,
		Matches:     r.MatchCount,
		Players:     len(r.Metrics),
		Teams:       len(teams),
		Awards:      len(r.Awards),
	}
}

type runner struct {
	log       *zap.Logger
	workers   int
	catalog   *awards.Catalog
	boardSize int
	rec       *telemetry.Recorder
	now       func() time.Time

	mu      sync.Mutex
	timings []StageTiming
}

// timed runs fn as the named stage and records its duration.
func (r *runner) timed(name string, fn func()) {
	start := time.Now()
	fn()
	d := time.Since(start)
	r.rec.ObserveStage(name, d)
	r.mu.Lock()
	r.timings = append(r.timings, StageTiming{Stage: name, Duration: d})
	r.mu.Unlock()
	r.log.Debug("stage done", zap.String("stage", name), zap.Duration("took", d))
}

// Run executes the whole pipeline. It fails only when ctx is cancelled or a
// stage panics; empty inputs yield empty tables.
func Run(ctx context.Context, in Input, opts ...Option) (res *Result, err error) {
	r := &runner{
		log:       zap.NewNop(),
		workers:   runtime.NumCPU(),
		boardSize: awards.DefaultLeaderboardSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalog == nil {
		if r.catalog, err = awards.NewCatalog(awards.Defaults()); err != nil {
			return nil, fmt.Errorf("default awards: %w", err)
		}
	}
	defer func() { r.rec.RunFinished(err) }()

	res = &Result{
		RunID:       uuid.NewString(),
		CreatedAt:   r.now().UTC(),
		EventsPath:  in.EventsPath,
		MatchesPath: in.MatchesPath,
		EventCount:  len(in.Events),
		MatchCount:  len(in.Matches),
		Awards:      r.catalog.All(),
	}
	log := r.log.With(zap.String("run", res.RunID))
	log.Info("pipeline started", zap.Int("events", len(in.Events)), zap.Int("matches", len(in.Matches)))

	// ---- Stage 1: preprocess and zone. ----

	var events []model.Event
	var zoned []model.ZonedEvent
	r.timed("preprocess", func() { events = preprocess.Events(in.Events) })
	r.timed("zone", func() { zoned = zone.Assign(events) })
	if len(zoned) < len(events) {
		log.Debug("events without a zone", zap.Int("dropped", len(events)-len(zoned)))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := pond.NewPool(r.workers, pond.WithQueueSize(64))
	defer pool.StopAndWait()

	// ---- Stage 2: independent aggregations. ----

	matches := model.NewMatchIndex(in.Matches)
	identities := aggregator.Identities(events)
	group := pool.NewGroupContext(ctx)
	submit := func(name string, fn func()) {
		group.Submit(func() {
			if group.Context().Err() != nil {
				return
			}
			r.timed(name, fn)
		})
	}
	submit("defense", func() { res.Defense = aggregator.Defense(events) })
	submit("attack", func() { res.Attack = aggregator.Attack(events) })
	submit("clearance_panic", func() { res.Panic = aggregator.ClearancePanic(events) })
	submit("halves", func() { res.Halves = aggregator.Halves(events) })
	submit("turnover", func() { res.Turnover = aggregator.Turnover(events) })
	submit("team_zones", func() { res.TeamZones = profile.TeamZones(zoned) })
	submit("team_zones_against", func() { res.TeamZonesAgainst = profile.TeamZonesAgainst(zoned, matches) })
	submit("player_zones", func() { res.PlayerZones = profile.PlayerZones(zoned, identities) })
	submit("league_zones", func() { res.LeagueZones = profile.LeagueZones(zoned) })
	if err := wait(ctx, group); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	// ---- Stage 3: metrics. ----

	r.timed("metrics", func() {
		res.Metrics = awards.ComputeMetrics(awards.Inputs{
			Defense:  res.Defense,
			Attack:   res.Attack,
			Panic:    res.Panic,
			Halves:   res.Halves,
			Turnover: res.Turnover,
		})
	})

	// ---- Stage 4: one ranking task per award, concatenated in award order. ----

	list := r.catalog.All()
	perAward := make([][]model.AwardScore, len(list))
	group = pool.NewGroupContext(ctx)
	for i, a := range list {
		i, a := i, a // per-iteration copies; go.mod targets go 1.21 loop semantics
		submit("rank:"+a.ID, func() { perAward[i] = awards.Rank(res.Metrics, a) })
	}
	if err := wait(ctx, group); err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	for i, scores := range perAward {
		if len(scores) == 0 {
			log.Debug("no qualifying players", zap.String("award", list[i].ID))
		}
		r.rec.SetQualified(list[i].ID, len(scores))
		res.Scores = append(res.Scores, scores...)
	}
	awards.SortScores(res.Scores)

	// ---- Stage 5: leaderboard and summaries. ----

	r.timed("summaries", func() {
		res.Leaderboard = awards.Leaderboard(res.Scores, r.boardSize)
		res.Profiles = profile.Players(res.Metrics, res.Scores)
		res.Teams = profile.Teams(res.Defense, events)
	})

	for table, n := range res.RowCounts() {
		r.rec.SetRows(table, n)
	}
	r.mu.Lock()
	res.Timings = append([]StageTiming(nil), r.timings...)
	r.mu.Unlock()

	log.Info("pipeline finished",
		zap.Int("players", len(res.Metrics)),
		zap.Int("award_rows", len(res.Scores)),
		zap.Int("teams", len(res.Teams)),
	)
	return res, nil
}

// wait blocks on a task group. A stopped group or cancelled context is
// reported as the context error; a panicking task as its error.
func wait(ctx context.Context, group pond.TaskGroup) error {
	err := group.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return err
	}
	return nil
}

// RowCounts reports the size of every output table.
func (r *Result) RowCounts() map[string]int {
	return map[string]int{
		"player_stats":         len(r.Metrics),
		"award_scores":         len(r.Scores),
		"leaderboard":          len(r.Leaderboard),
		"player_profiles":      len(r.Profiles),
		"team_stats":           len(r.Teams),
		"team_zone_profile":    len(r.TeamZones),
		"team_zone_against":    len(r.TeamZonesAgainst),
		"player_zone_activity": len(r.PlayerZones),
		"league_zone_average":  len(r.LeagueZones),
	}
}
