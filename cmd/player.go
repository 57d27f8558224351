package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/report"
	"github.com/pable/go-ignobel-metrics/internal/storage"
)

var (
	playerRun   string
	playerZones bool
)

// playerCmd prints one player's fail rates and award placements.
var playerCmd = &cobra.Command{
	Use:   "player <player-id|name>",
	Short: "Award card for one player",
	Long: `Print a player's defensive fail rates and every award they placed in.
A non-numeric argument is matched against player names; when several
players match, they are listed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerRun, "run", "", "run id prefix (default newest)")
	playerCmd.Flags().BoolVar(&playerZones, "zones", false, "also print the player's zone activity")
}

// resolvePlayer finds a player by id or by a unique name match.
func resolvePlayer(db *storage.DB, runID, arg string) (*model.PlayerMetrics, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return db.GetPlayer(runID, id)
	}
	found, err := db.FindPlayers(runID, arg)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("player %q: %w", arg, storage.ErrNotFound)
	case 1:
		return &found[0], nil
	}
	fmt.Fprintf(os.Stderr, "%d players match %q:\n", len(found), arg)
	for _, p := range found {
		fmt.Fprintf(os.Stderr, "  %-10d %-28s %s\n", p.PlayerID, p.PlayerName, p.TeamName)
	}
	return nil, fmt.Errorf("ambiguous player %q", arg)
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(playerRun)
	if err != nil {
		return fmt.Errorf("find run %q: %w", playerRun, err)
	}
	m, err := resolvePlayer(db, run.ID, args[0])
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No data found for %s in run %s\n", args[0], run.ID)
		return nil
	}
	if err != nil {
		return err
	}

	list, err := db.GetRunAwards(run.ID)
	if err != nil {
		return fmt.Errorf("get awards: %w", err)
	}
	placements, err := db.GetPlayerAwards(run.ID, m.PlayerID)
	if err != nil {
		return fmt.Errorf("get placements: %w", err)
	}
	report.PrintPlayerCard(os.Stdout, *m, list, placements)

	if playerZones {
		cells, err := db.GetPlayerZones(run.ID, m.PlayerID)
		if err != nil {
			return fmt.Errorf("get zones: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintPlayerZoneTable(os.Stdout, cells)
	}
	return nil
}
