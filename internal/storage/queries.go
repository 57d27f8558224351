package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/pipeline"
)

// runTables lists every per-run table, children before the runs table.
var runTables = []string{
	"run_awards",
	"player_stats",
	"award_scores",
	"player_profiles",
	"team_stats",
	"team_zone_profile",
	"team_zone_against",
	"player_zone_activity",
	"league_zone_average",
}

// SaveRun stores every table of a pipeline result in one transaction.
func (db *DB) SaveRun(res *pipeline.Result) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s := res.Summary()
	_, err = tx.Exec(`
		INSERT INTO runs(id, created_at, events_path, matches_path, events, matches, players, teams, awards)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CreatedAt.UTC().Format(timeLayout), s.EventsPath, s.MatchesPath,
		s.Events, s.Matches, s.Players, s.Teams, s.Awards,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", s.ID, err)
	}

	steps := []func() error{
		func() error { return insertRows(tx, "run_awards", s.ID, model.AwardFields, res.Awards) },
		func() error { return insertRows(tx, "player_stats", s.ID, model.PlayerMetricsFields, res.Metrics) },
		func() error { return insertRows(tx, "award_scores", s.ID, model.AwardScoreFields, res.Scores) },
		func() error { return insertRows(tx, "player_profiles", s.ID, model.PlayerProfileFields, res.Profiles) },
		func() error { return insertRows(tx, "team_stats", s.ID, model.TeamStatsFields, res.Teams) },
		func() error { return insertRows(tx, "team_zone_profile", s.ID, model.TeamZoneFields, res.TeamZones) },
		func() error { return insertRows(tx, "team_zone_against", s.ID, model.TeamZoneFields, res.TeamZonesAgainst) },
		func() error { return insertRows(tx, "player_zone_activity", s.ID, model.PlayerZoneFields, res.PlayerZones) },
		func() error { return insertRows(tx, "league_zone_average", s.ID, model.LeagueZoneFields, res.LeagueZones) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = `id, created_at, events_path, matches_path, events, matches, players, teams, awards`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (model.RunSummary, error) {
	var s model.RunSummary
	var created string
	if err := r.Scan(&s.ID, &created, &s.EventsPath, &s.MatchesPath,
		&s.Events, &s.Matches, &s.Players, &s.Teams, &s.Awards); err != nil {
		return s, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return s, fmt.Errorf("run %s: bad created_at %q: %w", s.ID, created, err)
	}
	s.CreatedAt = t
	return s, nil
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRun finds the newest run whose id starts with prefix. An empty prefix
// selects the newest run overall.
func (db *DB) GetRun(prefix string) (*model.RunSummary, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	s, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteRun removes a run and every row that belongs to it.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range runTables {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE run_id = ?", table), id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRun
	}
	return tx.Commit()
}

// GetRunAwards returns the award catalogue a run was ranked with.
func (db *DB) GetRunAwards(runID string) ([]model.Award, error) {
	return selectRows(db, "run_awards", model.AwardFields, "WHERE run_id = ? ORDER BY rowid", runID)
}

// GetPlayerStats returns the wide player table of a run, ordered by player id.
func (db *DB) GetPlayerStats(runID string) ([]model.PlayerMetrics, error) {
	return selectRows(db, "player_stats", model.PlayerMetricsFields, "WHERE run_id = ? ORDER BY player_id", runID)
}

// GetPlayer returns one player's wide row.
func (db *DB) GetPlayer(runID string, playerID int64) (*model.PlayerMetrics, error) {
	rows, err := selectRows(db, "player_stats", model.PlayerMetricsFields,
		"WHERE run_id = ? AND player_id = ?", runID, playerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	return &rows[0], nil
}

// FindPlayers returns players whose name contains the given text, ignoring case.
func (db *DB) FindPlayers(runID, name string) ([]model.PlayerMetrics, error) {
	return selectRows(db, "player_stats", model.PlayerMetricsFields,
		"WHERE run_id = ? AND player_name LIKE ? ORDER BY player_id", runID, "%"+name+"%")
}

// GetAwardScores returns a run's placements down to rank maxRank, ordered by
// award, rank and player. An empty awardID selects every award; maxRank <= 0
// keeps every placement.
func (db *DB) GetAwardScores(runID, awardID string, maxRank int) ([]model.AwardScore, error) {
	where := "WHERE run_id = ?"
	args := []any{runID}
	if awardID != "" {
		where += " AND award_id = ?"
		args = append(args, awardID)
	}
	if maxRank > 0 {
		where += " AND rank <= ?"
		args = append(args, maxRank)
	}
	return selectRows(db, "award_scores", model.AwardScoreFields, where+" ORDER BY award_id, rank, player_id", args...)
}

// GetPlayerAwards returns every placement of one player, best rank first.
func (db *DB) GetPlayerAwards(runID string, playerID int64) ([]model.AwardScore, error) {
	return selectRows(db, "award_scores", model.AwardScoreFields,
		"WHERE run_id = ? AND player_id = ? ORDER BY rank, percentile DESC, award_id", runID, playerID)
}

// GetPlayerProfiles returns every player's award summary.
func (db *DB) GetPlayerProfiles(runID string) ([]model.PlayerProfile, error) {
	return selectRows(db, "player_profiles", model.PlayerProfileFields, "WHERE run_id = ? ORDER BY player_id", runID)
}

// GetTeamStats returns the team aggregate, ordered by team name.
func (db *DB) GetTeamStats(runID string) ([]model.TeamStats, error) {
	return selectRows(db, "team_stats", model.TeamStatsFields, "WHERE run_id = ? ORDER BY team_name", runID)
}

// GetTeamZones returns zone cells for one team, or for every team when team
// is empty. With against set, cells describe what opponents did against the team.
func (db *DB) GetTeamZones(runID, team string, against bool) ([]model.TeamZone, error) {
	table := "team_zone_profile"
	if against {
		table = "team_zone_against"
	}
	where := "WHERE run_id = ?"
	args := []any{runID}
	if team != "" {
		where += " AND team_name = ?"
		args = append(args, team)
	}
	return selectRows(db, table, model.TeamZoneFields, where+" ORDER BY team_name, zone, event_type", args...)
}

// GetPlayerZones returns one player's zone cells, or every player's when playerID is 0.
func (db *DB) GetPlayerZones(runID string, playerID int64) ([]model.PlayerZone, error) {
	where := "WHERE run_id = ?"
	args := []any{runID}
	if playerID != 0 {
		where += " AND player_id = ?"
		args = append(args, playerID)
	}
	return selectRows(db, "player_zone_activity", model.PlayerZoneFields, where+" ORDER BY player_id, zone, event_type", args...)
}

// GetLeagueZones returns the league-wide zone cells.
func (db *DB) GetLeagueZones(runID string) ([]model.LeagueZone, error) {
	return selectRows(db, "league_zone_average", model.LeagueZoneFields, "WHERE run_id = ? ORDER BY zone, event_type", runID)
}
