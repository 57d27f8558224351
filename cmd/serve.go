package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/server"
	"github.com/pable/go-ignobel-metrics/internal/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored runs as a JSON API",
	Long: `Start a read-only HTTP API over the database:

  GET /api/runs
  GET /api/awards?run=
  GET /api/leaderboard?run=&award=&limit=
  GET /api/players/:id?run=
  GET /api/teams?run=
  GET /api/teams/:name/zones?run=&against=
  GET /api/league/zones?run=
  GET /metrics

run is an id prefix and defaults to the newest run.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(db, logger, telemetry.New(), cfg.LeaderboardSize)
	return srv.Run(cmd.Context(), addr)
}
