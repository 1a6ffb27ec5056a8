// internal/cli/list.go
package metricdeck

import (
	"github.com/spf13/cobra"
)

// listCmd represents the 'list' command group for enumerating resources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for enumerating monitoring resources",
	Long:  `The 'list' command groups subcommands that enumerate resources exposed by the monitoring API, such as metric and label descriptors.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
