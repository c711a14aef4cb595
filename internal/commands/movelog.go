// internal/commands/movelog.go
package fumeplot

import (
	"fmt"

	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/spf13/cobra"
)

var movelogCmd = &cobra.Command{
	Use:   "movelog [mode]",
	Short: "Print the column names of the ensemble's migration.log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeFromArgs(args)
		if err != nil {
			return err
		}
		dirs, err := ensemble.Discover(GetConfig().InputDir(string(mode)))
		if err != nil {
			return err
		}
		headers, err := header.ReadMovelogHeaders(dirs)
		if err != nil {
			return err
		}
		for i, h := range headers {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, h)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(movelogCmd)
}
