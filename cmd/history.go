package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the latest recorded runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the latest reconciliation runs",
	Long:  `Prints the latest runs from the history database. Requires DATABASE_DRIVER to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		runs, err := a.service.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  changed=%t dry_run=%t games=%d failed=%d discovered=%d new=%d\n",
				r.StartedAt.Local().Format(time.DateTime), r.ID, r.Changed, r.DryRun,
				r.Games, r.FailedGames, r.Discovered, r.NewRecords)
			if r.Archive != "" {
				fmt.Printf("    archive: %s\n", r.Archive)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
	RootCmd.AddCommand(historyCmd)
}
