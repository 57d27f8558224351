package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var trendDays int

var trendCmd = &cobra.Command{
	Use:   "trend <player-id>",
	Short: "A player's award placements across stored runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&trendDays, "days", 0, "only runs from the last N days (0 = all)")
}

func runTrend(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player id: %w", err)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var since time.Time
	if trendDays > 0 {
		since = time.Now().AddDate(0, 0, -trendDays)
	}
	hist, err := db.PlayerHistory(id, since)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if len(hist) == 0 {
		fmt.Println("no placements found")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("RUN", "CREATED", "AWARD", "RANK", "SCORE", "PCTL")
	for _, h := range hist {
		run := h.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		table.Append(
			run,
			h.CreatedAt.Local().Format("2006-01-02 15:04"),
			h.AwardID,
			strconv.Itoa(h.Rank),
			fmt.Sprintf("%.3f", h.Score),
			fmt.Sprintf("%.1f", h.Percentile),
		)
	}
	table.Render()
	return nil
}
