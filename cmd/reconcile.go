package cmd

import (
	"fmt"

	"dlc-updater/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRun    bool
	noArchive bool
)

// reconcileCmd discovers DLC for every game and updates both stores.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Discover DLC and append missing entries to both stores",
	Long: `Discovers the DLC of every supported game and appends the missing ones to
cream_api.ini and DLC.txt. Existing entries are never changed or removed.
When a store changed, the patch directories are archived.

Examples:
  # Full run
  dlc-updater reconcile

  # Show what would be appended without writing
  dlc-updater reconcile --dry-run`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute new entries without writing any store")
	reconcileCmd.Flags().BoolVar(&noArchive, "no-archive", false, "Skip the patch archive")
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.service.Run(cmd.Context(), inventory.RunOptions{DryRun: dryRun, NoArchive: noArchive})
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	s := out.Plan.Summary
	a.logger.Info("Reconciliation report",
		zap.Int("games", s.Games),
		zap.Int("failed_games", s.FailedGames),
		zap.Int("discovered", s.DiscoveredDLC),
		zap.Any("new_records", s.NewRecords),
		zap.Any("applied", out.Applied),
		zap.Bool("changed", out.Changed),
	)
	if dryRun {
		for _, store := range a.service.Stores() {
			delta := out.Plan.Deltas[store.Name()]
			for _, g := range a.service.Games() {
				for _, id := range delta.SortedIDs(g.Name) {
					fmt.Printf("[%s] %s: %s = %s\n", store.Name(), g.Name, id, delta[g.Name][id])
				}
			}
		}
		a.logger.Info("Dry-run mode: No changes were made.")
	}
	return nil
}
