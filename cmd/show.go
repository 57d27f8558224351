package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/report"
	"github.com/pable/go-ignobel-metrics/internal/storage"
)

var (
	showAward string
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show [run-prefix]",
	Short: "Show the leaderboard of a stored run (default newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showAward, "award", "", "only this award id")
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "deepest rank to show (default top_n from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(prefix)
	if errors.Is(err, storage.ErrNoRun) {
		fmt.Fprintf(os.Stderr, "No run found with id prefix %q\n", prefix)
		return nil
	}
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}

	list, err := db.GetRunAwards(run.ID)
	if err != nil {
		return fmt.Errorf("get awards: %w", err)
	}
	if showAward != "" {
		var keep []model.Award
		for _, a := range list {
			if a.ID == showAward {
				keep = append(keep, a)
			}
		}
		if len(keep) == 0 {
			return fmt.Errorf("run %s has no award %q", run.ID, showAward)
		}
		list = keep
	}
	limit := cfg.TopN
	if showLimit > 0 {
		limit = showLimit
	}
	scores, err := db.GetAwardScores(run.ID, showAward, limit)
	if err != nil {
		return fmt.Errorf("get scores: %w", err)
	}

	report.PrintRunSummary(os.Stdout, *run)
	report.PrintLeaderboard(os.Stdout, list, scores)
	return nil
}
