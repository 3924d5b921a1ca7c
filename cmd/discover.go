package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoverJSON bool

// discoverCmd prints the merged DLC set of one game without touching the stores.
var discoverCmd = &cobra.Command{
	Use:   "discover <game>",
	Short: "Print the discovered DLC of one game",
	Long: `Runs official and hidden discovery for one game and prints the merged set.
The game name must match the registry exactly, e.g. "Stellaris".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		set, err := a.service.Discover(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		records := set.Sorted()
		if discoverJSON {
			type row struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				Origin string `json:"origin"`
			}
			rows := make([]row, 0, len(records))
			for _, r := range records {
				rows = append(rows, row{ID: r.ID, Name: r.Name, Origin: r.Origin.String()})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		for _, r := range records {
			fmt.Printf("%s = %s (%s)\n", r.ID, r.Name, r.Origin)
		}
		fmt.Printf("%d DLC\n", len(records))
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Output JSON")
	RootCmd.AddCommand(discoverCmd)
}
