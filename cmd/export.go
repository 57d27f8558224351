package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/loader"
	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/pipeline"
	"github.com/pable/go-ignobel-metrics/internal/storage"
)

var (
	exportRun     string
	exportOut     string
	exportPlayers string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run as CSV files",
	Long: `Write every table of a stored run into a directory, one CSV per table:

  awards.csv                the award catalogue the run was ranked with
  player_stats.csv          wide per-player counts and metrics
  leaderboard.csv           every (award, player) placement
  player_profiles.csv       per-player award summary
  team_stats.csv            team defensive aggregate
  team_zone_profile.csv     team activity per zone and event type
  team_zone_against.csv     opponent activity per zone, credited to the defending team
  player_zone_activity.csv  player activity per zone and event type
  league_zone_average.csv   league-wide zone averages

With --players, leaderboard.csv only holds those players.

Example:
  ignobel export --run 3f2a --out ./out --players 1021,1187`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportRun, "run", "", "run id prefix (default newest)")
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory")
	exportCmd.Flags().StringVar(&exportPlayers, "players", "", "comma-separated player ids to keep in leaderboard.csv")
}

// csvTable is one named output table.
type csvTable struct {
	name  string
	write func(w io.Writer) error
}

func csvOf[T any](name string, fields []model.Field[T], rows []T) csvTable {
	return csvTable{name: name, write: func(w io.Writer) error { return loader.WriteCSV(w, fields, rows) }}
}

// tablesOf lists the output tables of an in-memory run.
func tablesOf(res *pipeline.Result) []csvTable {
	return []csvTable{
		csvOf("awards", model.AwardFields, res.Awards),
		csvOf("player_stats", model.PlayerMetricsFields, res.Metrics),
		csvOf("leaderboard", model.AwardScoreFields, res.Scores),
		csvOf("player_profiles", model.PlayerProfileFields, res.Profiles),
		csvOf("team_stats", model.TeamStatsFields, res.Teams),
		csvOf("team_zone_profile", model.TeamZoneFields, res.TeamZones),
		csvOf("team_zone_against", model.TeamZoneFields, res.TeamZonesAgainst),
		csvOf("player_zone_activity", model.PlayerZoneFields, res.PlayerZones),
		csvOf("league_zone_average", model.LeagueZoneFields, res.LeagueZones),
	}
}

// storedTables reads the output tables of a stored run.
func storedTables(db *storage.DB, runID string, players []int64) ([]csvTable, error) {
	var res pipeline.Result
	var err error
	if res.Awards, err = db.GetRunAwards(runID); err != nil {
		return nil, err
	}
	if res.Metrics, err = db.GetPlayerStats(runID); err != nil {
		return nil, err
	}
	if len(players) > 0 {
		res.Scores, err = db.GetScoresForPlayers(runID, players)
	} else {
		res.Scores, err = db.GetAwardScores(runID, "", 0)
	}
	if err != nil {
		return nil, err
	}
	if res.Profiles, err = db.GetPlayerProfiles(runID); err != nil {
		return nil, err
	}
	if res.Teams, err = db.GetTeamStats(runID); err != nil {
		return nil, err
	}
	if res.TeamZones, err = db.GetTeamZones(runID, "", false); err != nil {
		return nil, err
	}
	if res.TeamZonesAgainst, err = db.GetTeamZones(runID, "", true); err != nil {
		return nil, err
	}
	if res.PlayerZones, err = db.GetPlayerZones(runID, 0); err != nil {
		return nil, err
	}
	if res.LeagueZones, err = db.GetLeagueZones(runID); err != nil {
		return nil, err
	}
	return tablesOf(&res), nil
}

func writeTables(dir string, tables []csvTable) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := t.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	players, err := parseIDs(exportPlayers)
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(exportRun)
	if err != nil {
		return fmt.Errorf("find run %q: %w", exportRun, err)
	}
	tables, err := storedTables(db, run.ID, players)
	if err != nil {
		return fmt.Errorf("read run %s: %w", run.ID, err)
	}
	return writeTables(exportOut, tables)
}
