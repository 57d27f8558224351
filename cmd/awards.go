package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ignobel-metrics/internal/report"
)

var awardsRun string

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "List the configured awards, or those of a stored run",
	Long: `Without --run, list the award catalogue the next build will use: the
built-in list, or the "awards" section of the config file when present.`,
	Args: cobra.NoArgs,
	RunE: runAwards,
}

func init() {
	awardsCmd.Flags().StringVar(&awardsRun, "run", "", "run id prefix")
}

func runAwards(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("run") {
		report.PrintAwards(os.Stdout, cfg.Catalog().All())
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(awardsRun)
	if err != nil {
		return fmt.Errorf("find run %q: %w", awardsRun, err)
	}
	list, err := db.GetRunAwards(run.ID)
	if err != nil {
		return fmt.Errorf("get awards: %w", err)
	}
	report.PrintAwards(os.Stdout, list)
	return nil
}
