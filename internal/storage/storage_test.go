package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/pipeline"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func key(id int64, name, team string) model.PlayerKey {
	return model.PlayerKey{PlayerID: id, PlayerName: name, TeamName: team}
}

func sampleRun(id string, created time.Time) *pipeline.Result {
	alice, bob := key(1, "Alice", "Red"), key(2, "Bob", "Blue")
	return &pipeline.Result{
		RunID:      id,
		CreatedAt:  created,
		EventsPath: "events.csv",
		EventCount: 120,
		MatchCount: 2,
		Awards: []model.Award{
			{ID: "tackle_fail", Title: "Tackled, But...", Metric: "tackle_fail_rate", Denominator: "tackle_attempt", MinAttempts: 5, Direction: model.DirectionHigh},
			{ID: "duel_fail", Title: "Loves a Duel, Loses It", Metric: "duel_fail_rate", Denominator: "duel_attempt", MinAttempts: 10, Direction: model.DirectionHigh},
		},
		Metrics: []model.PlayerMetrics{
			{PlayerKey: alice, DefenseCounts: model.DefenseCounts{TackleAttempt: 5, TackleFail: 2}, TackleFailRate: 0.4},
			{PlayerKey: bob, AttackCounts: model.AttackCounts{Games: 2, Offsides: 3}, OffsidePerGame: 1.5},
		},
		Scores: []model.AwardScore{
			{AwardID: "duel_fail", PlayerID: 2, PlayerName: "Bob", TeamName: "Blue", Score: 0.7, Rank: 1, Percentile: 100},
			{AwardID: "tackle_fail", PlayerID: 1, PlayerName: "Alice", TeamName: "Red", Score: 0.4, Rank: 1, Percentile: 100},
			{AwardID: "tackle_fail", PlayerID: 2, PlayerName: "Bob", TeamName: "Blue", Score: 0.2, Rank: 2, Percentile: 50},
		},
		Profiles: []model.PlayerProfile{
			{PlayerKey: alice, AwardsRanked: 1, Podiums: 1, BestAwardID: "tackle_fail", BestRank: 1, BestPercentile: 100},
		},
		Teams: []model.TeamStats{
			{TeamName: "Blue", TeamID: 20, Players: 1},
			{TeamName: "Red", TeamID: 10, Players: 1, DefenseCounts: model.DefenseCounts{TackleAttempt: 5, TackleFail: 2}, TackleFailRate: 0.4},
		},
		TeamZones: []model.TeamZone{
			{TeamName: "Red", Zone: "DM-C", EventType: model.TypeTackle, EventCount: 5, SuccessCount: 3, SuccessRate: 0.6},
		},
		TeamZonesAgainst: []model.TeamZone{
			{TeamName: "Blue", Zone: "DM-C", EventType: model.TypeTackle, EventCount: 5, SuccessCount: 3, SuccessRate: 0.6},
		},
		PlayerZones: []model.PlayerZone{
			{PlayerKey: alice, Zone: "DM-C", EventType: model.TypeTackle, EventCount: 5, SuccessCount: 3, FailCount: 2, SuccessRate: 0.6},
		},
		LeagueZones: []model.LeagueZone{
			{Zone: "DM-C", EventType: model.TypeTackle, LeagueCount: 5, LeagueSuccess: 3, LeagueSuccessRate: 0.6, AvgEventsPerTeam: 5},
		},
	}
}

func TestSaveRunAndListRuns(t *testing.T) {
	db := openMemDB(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := db.SaveRun(sampleRun("aaaa-1111", t0)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := db.SaveRun(sampleRun("bbbb-2222", t0.Add(time.Hour))); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].ID != "bbbb-2222" {
		t.Errorf("expected bbbb-2222 first, got %s", runs[0].ID)
	}
	r := runs[1]
	if !r.CreatedAt.Equal(t0) || r.Events != 120 || r.Matches != 2 || r.Players != 2 || r.Teams != 2 || r.Awards != 2 {
		t.Errorf("run summary mismatch: %+v", r)
	}
}

func TestSaveRunDuplicateID(t *testing.T) {
	db := openMemDB(t)
	now := time.Now()
	if err := db.SaveRun(sampleRun("dup", now)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := db.SaveRun(sampleRun("dup", now)); err == nil {
		t.Error("expected an error saving the same run id twice")
	}
	runs, _ := db.ListRuns()
	if len(runs) != 1 {
		t.Errorf("failed save must roll back, got %d runs", len(runs))
	}
}

func TestGetRun(t *testing.T) {
	db := openMemDB(t)
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	db.SaveRun(sampleRun("deadbeef-1", t0))
	db.SaveRun(sampleRun("cafe-2", t0.Add(time.Minute)))

	latest, err := db.GetRun("")
	if err != nil {
		t.Fatalf("GetRun latest: %v", err)
	}
	if latest.ID != "cafe-2" {
		t.Errorf("expected newest run cafe-2, got %s", latest.ID)
	}

	byPrefix, err := db.GetRun("deadb")
	if err != nil {
		t.Fatalf("GetRun prefix: %v", err)
	}
	if byPrefix.ID != "deadbeef-1" {
		t.Errorf("unexpected run %s", byPrefix.ID)
	}

	if _, err := db.GetRun("ffff"); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestGetRunEmptyDB(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.GetRun(""); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun on empty db, got %v", err)
	}
}

func TestRunTablesRoundTrip(t *testing.T) {
	db := openMemDB(t)
	want := sampleRun("run-1", time.Now())
	if err := db.SaveRun(want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	awards, err := db.GetRunAwards("run-1")
	if err != nil {
		t.Fatalf("GetRunAwards: %v", err)
	}
	if !reflect.DeepEqual(awards, want.Awards) {
		t.Errorf("awards mismatch:\n got %+v\nwant %+v", awards, want.Awards)
	}

	metrics, err := db.GetPlayerStats("run-1")
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if !reflect.DeepEqual(metrics, want.Metrics) {
		t.Errorf("player stats mismatch:\n got %+v\nwant %+v", metrics, want.Metrics)
	}

	teams, _ := db.GetTeamStats("run-1")
	if !reflect.DeepEqual(teams, want.Teams) {
		t.Errorf("team stats mismatch: %+v", teams)
	}
	profiles, _ := db.GetPlayerProfiles("run-1")
	if !reflect.DeepEqual(profiles, want.Profiles) {
		t.Errorf("profiles mismatch: %+v", profiles)
	}
	league, _ := db.GetLeagueZones("run-1")
	if !reflect.DeepEqual(league, want.LeagueZones) {
		t.Errorf("league zones mismatch: %+v", league)
	}
	pz, _ := db.GetPlayerZones("run-1", 1)
	if !reflect.DeepEqual(pz, want.PlayerZones) {
		t.Errorf("player zones mismatch: %+v", pz)
	}
}

func TestGetPlayer(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("run-1", time.Now()))

	p, err := db.GetPlayer("run-1", 2)
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if p.PlayerName != "Bob" || p.Offsides != 3 || p.OffsidePerGame != 1.5 {
		t.Errorf("Bob mismatch: %+v", p)
	}
	if _, err := db.GetPlayer("run-1", 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	found, err := db.FindPlayers("run-1", "ali")
	if err != nil {
		t.Fatalf("FindPlayers: %v", err)
	}
	if len(found) != 1 || found[0].PlayerID != 1 {
		t.Errorf("expected Alice, got %+v", found)
	}
}

func TestGetAwardScores(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("run-1", time.Now()))

	all, err := db.GetAwardScores("run-1", "", 0)
	if err != nil {
		t.Fatalf("GetAwardScores: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(all))
	}
	if all[0].AwardID != "duel_fail" {
		t.Errorf("expected award order, got %s first", all[0].AwardID)
	}

	top, _ := db.GetAwardScores("run-1", "tackle_fail", 1)
	if len(top) != 1 || top[0].PlayerName != "Alice" {
		t.Errorf("expected Alice alone on top, got %+v", top)
	}

	bob, _ := db.GetPlayerAwards("run-1", 2)
	if len(bob) != 2 || bob[0].AwardID != "duel_fail" {
		t.Errorf("expected Bob's best placement first, got %+v", bob)
	}

	many, _ := db.GetScoresForPlayers("run-1", []int64{1, 2})
	if len(many) != 3 || many[0].PlayerID != 1 {
		t.Errorf("unexpected roster scores: %+v", many)
	}
	none, _ := db.GetScoresForPlayers("run-1", nil)
	if none != nil {
		t.Errorf("expected nil for empty roster, got %+v", none)
	}
}

func TestGetTeamZones(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("run-1", time.Now()))

	own, _ := db.GetTeamZones("run-1", "Red", false)
	if len(own) != 1 || own[0].SuccessRate != 0.6 {
		t.Errorf("unexpected Red zones: %+v", own)
	}
	against, _ := db.GetTeamZones("run-1", "Red", true)
	if len(against) != 0 {
		t.Errorf("expected nothing against Red, got %+v", against)
	}
	against, _ = db.GetTeamZones("run-1", "", true)
	if len(against) != 1 || against[0].TeamName != "Blue" {
		t.Errorf("unexpected zones against: %+v", against)
	}
}

func TestPlayerHistory(t *testing.T) {
	db := openMemDB(t)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db.SaveRun(sampleRun("old", t0))
	db.SaveRun(sampleRun("new", t0.AddDate(0, 1, 0)))

	hist, err := db.PlayerHistory(2, time.Time{})
	if err != nil {
		t.Fatalf("PlayerHistory: %v", err)
	}
	if len(hist) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(hist))
	}
	if hist[0].RunID != "new" {
		t.Errorf("expected newest run first, got %s", hist[0].RunID)
	}

	recent, _ := db.PlayerHistory(2, t0.AddDate(0, 0, 15))
	if len(recent) != 2 {
		t.Errorf("expected 2 recent entries, got %d", len(recent))
	}
}

func TestDeleteRun(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("run-1", time.Now()))

	if err := db.DeleteRun("run-1"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := db.GetRun(""); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected no runs left, got %v", err)
	}
	scores, _ := db.GetAwardScores("run-1", "", 0)
	if len(scores) != 0 {
		t.Errorf("expected scores deleted, got %d", len(scores))
	}
	if err := db.DeleteRun("run-1"); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun deleting twice, got %v", err)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("run-1", time.Now()))

	cols, rows, err := db.QueryRaw("SELECT player_name, score, NULL AS empty_col FROM award_scores WHERE award_id = 'duel_fail'")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"player_name", "score", "empty_col"}) {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Bob" || rows[0][1] != "0.7" || rows[0][2] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected an error for a missing table")
	}
}

func TestSavePipelineResult(t *testing.T) {
	db := openMemDB(t)
	ev := func(player, action int64, t float64, typ, result string) model.Event {
		return model.Event{
			GameID: 1, PeriodID: 1, TimeSeconds: t, ActionID: action, PlayerID: player,
			PlayerName: "p", TeamID: player, TeamName: map[int64]string{1: "Red", 2: "Blue"}[player],
			TypeName: typ, ResultName: result, StartX: 30, StartY: 30,
		}
	}
	in := pipeline.Input{Events: []model.Event{
		ev(1, 1, 5, model.TypeTackle, model.ResultUnsuccessful),
		ev(1, 2, 9, model.TypeClearance, ""),
		ev(2, 3, 12, model.TypeShot, model.ResultGoal),
	}}
	res, err := pipeline.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	if err := db.SaveRun(res); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	metrics, err := db.GetPlayerStats(res.RunID)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if !reflect.DeepEqual(metrics, res.Metrics) {
		t.Errorf("stored metrics differ:\n got %+v\nwant %+v", metrics, res.Metrics)
	}
	zones, _ := db.GetLeagueZones(res.RunID)
	if len(zones) != len(res.LeagueZones) {
		t.Errorf("expected %d league cells, got %d", len(res.LeagueZones), len(zones))
	}
}
