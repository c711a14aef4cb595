// internal/commands/version.go
package fumeplot

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fumeplot %s\n", versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
