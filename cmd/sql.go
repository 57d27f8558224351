package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the awards database",
	Long: `Run an arbitrary SQL query against the awards database and print results as a table.

Schema overview (every table but runs carries run_id):
  runs(id, created_at, events_path, matches_path, events, matches, players, teams, awards)
  run_awards(id, title, category, metric, denominator, min_attempts, direction, description)
  player_stats(player_id, player_name, team_name, tackle_attempt, tackle_fail, ...,
    clearance, concede_shot10, tackle_fail_rate, clearance_panic_rate, second_half_drop, ...)
  award_scores(award_id, player_id, player_name, team_name, score, rank, percentile)
  player_profiles(player_id, awards_ranked, podiums, best_award_id, best_rank, best_percentile)
  team_stats(team_name, team_id, players, <defense counts>, tackle_fail_rate, ...)
  team_zone_profile / team_zone_against(team_name, zone, event_type, event_count, success_count, success_rate)
  player_zone_activity(player_id, zone, event_type, event_count, success_count, fail_count, success_rate)
  league_zone_average(zone, event_type, league_count, league_success, league_success_rate, avg_events_per_team)

Zones are "<x band>-<y band>" with x in D, DM, AM, A and y in L, C, R.
Example: ignobel sql "SELECT player_name, score FROM award_scores WHERE award_id = 'clearance_panic' AND rank <= 3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
