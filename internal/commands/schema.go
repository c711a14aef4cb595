// internal/commands/schema.go
package fumeplot

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/spf13/cobra"
)

// schemaCmd prints the column layout derived for a mode without reading any series.
var schemaCmd = &cobra.Command{
	Use:   "schema [mode]",
	Short: "Print the header schema resolved for a mode",
	Long: `Resolve the header schema from the first readable out.csv in the ensemble
and print one line per location with its simulation and reference columns.
With --debug the full schema is dumped as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeFromArgs(args)
		if err != nil {
			return err
		}
		dirs, err := ensemble.Discover(GetConfig().InputDir(string(mode)))
		if err != nil {
			return err
		}
		schema, err := header.Resolve(dirs, mode)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "mode:      %s\n", schema.Mode)
		fmt.Fprintf(w, "source:    %s\n", schema.Source)
		fmt.Fprintf(w, "y label:   %s\n", schema.YLabel)
		fmt.Fprintf(w, "locations: %d\n", schema.Len())
		for _, loc := range schema.Locations() {
			data := "-"
			if loc.HasReference() {
				data = fmt.Sprintf("%d (%s)", loc.DataIndex, loc.DataHeader)
			}
			fmt.Fprintf(w, "  %-24s sim=%d data=%s\n", loc.Name, loc.SimIndex, data)
		}
		if DebugEnabled() {
			pp.Fprintln(w, schema)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
