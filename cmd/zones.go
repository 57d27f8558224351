package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/profile"
	"github.com/pable/go-ignobel-metrics/internal/report"
)

var (
	zonesRun     string
	zonesType    string
	zonesAgainst bool
	zonesList    bool
)

var zonesCmd = &cobra.Command{
	Use:   "zones [team]",
	Short: "Zone activity of a team, or the league average",
	Long: `Draw the 4x3 pitch grid (own goal at the top) with the count and success
rate of one event type per zone. Without a team, the league-wide cells are
shown. --against shows what opponents did against the team instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runZones,
}

func init() {
	zonesCmd.Flags().StringVar(&zonesRun, "run", "", "run id prefix (default newest)")
	zonesCmd.Flags().StringVar(&zonesType, "type", model.TypeTackle, "event type to draw")
	zonesCmd.Flags().BoolVar(&zonesAgainst, "against", false, "events by opponents against the team")
	zonesCmd.Flags().BoolVar(&zonesList, "list", false, "print every cell as a table instead of the grid")
}

func runZones(cmd *cobra.Command, args []string) error {
	if !profile.IsKeyEvent(zonesType) {
		return fmt.Errorf("event type %q is not profiled per zone (one of %v)", zonesType, profile.KeyEventTypes)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(zonesRun)
	if err != nil {
		return fmt.Errorf("find run %q: %w", zonesRun, err)
	}

	if len(args) == 0 {
		cells, err := db.GetLeagueZones(run.ID)
		if err != nil {
			return fmt.Errorf("get league zones: %w", err)
		}
		report.PrintZoneGrid(os.Stdout, "League: "+zonesType, report.LeagueGrid(cells, zonesType))
		return nil
	}

	team := args[0]
	cells, err := db.GetTeamZones(run.ID, team, zonesAgainst)
	if err != nil {
		return fmt.Errorf("get team zones: %w", err)
	}
	if len(cells) == 0 {
		fmt.Fprintf(os.Stderr, "No zone data for team %q in run %s\n", team, run.ID)
		return nil
	}
	if zonesList {
		report.PrintZoneTable(os.Stdout, cells)
		return nil
	}
	title := team + ": " + zonesType
	if zonesAgainst {
		title = "Against " + title
	}
	report.PrintZoneGrid(os.Stdout, title, report.TeamGrid(cells, zonesType))
	return nil
}
