package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// inventoryCmd prints how many ids each store records per game.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Print the DLC count recorded per game in each store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		for _, store := range a.service.Stores() {
			games, err := a.service.Inventory(store.Name())
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", store.Name(), store.Path())
			if len(games) == 0 {
				fmt.Println("  (empty or missing)")
			}
			for _, g := range games {
				fmt.Printf("  %-40s %d\n", g.Game, g.Count)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inventoryCmd)
}
