package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/report"
)

var summaryRun string

// summaryCmd is the cobra command for a team and player overview of one run.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show team aggregates and the most decorated players of a run",
	Long: `Display the team defensive aggregate of a stored run followed by the
players with the most podium places across all awards.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryRun, "run", "", "run id prefix (default newest)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(summaryRun)
	if err != nil {
		return fmt.Errorf("find run %q: %w", summaryRun, err)
	}
	report.PrintRunSummary(os.Stdout, *run)

	teams, err := db.GetTeamStats(run.ID)
	if err != nil {
		return fmt.Errorf("get team stats: %w", err)
	}
	fmt.Fprintf(os.Stdout, "--- Teams ---\n\n")
	report.PrintTeamTable(os.Stdout, teams)

	profiles, err := db.GetPlayerProfiles(run.ID)
	if err != nil {
		return fmt.Errorf("get profiles: %w", err)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.Podiums != b.Podiums {
			return a.Podiums > b.Podiums
		}
		return a.AwardsRanked > b.AwardsRanked
	})
	if len(profiles) > 10 {
		profiles = profiles[:10]
	}

	fmt.Fprintf(os.Stdout, "\n--- Most Decorated Players ---\n\n")
	pt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	pt.Header("NAME", "PLAYER ID", "TEAM", "PODIUMS", "AWARDS", "BEST", "BEST RANK")
	for _, p := range profiles {
		if p.AwardsRanked == 0 {
			continue
		}
		pt.Append(
			p.PlayerName,
			fmt.Sprintf("%d", p.PlayerID),
			p.TeamName,
			fmt.Sprintf("%d", p.Podiums),
			fmt.Sprintf("%d", p.AwardsRanked),
			p.BestAwardID,
			fmt.Sprintf("%d", p.BestRank),
		)
	}
	pt.Render()
	return nil
}
