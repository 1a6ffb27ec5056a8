// internal/cli/dashboard.go
package metricdeck

import (
	"context"

	"github.com/metricdeck/metricdeck/internal/tui"
	"github.com/spf13/cobra"
)

// dashboardCmd implements 'dashboard', which starts the interactive chart
// dashboard over the configured monitoring project.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Start the interactive chart dashboard",
	Long:  `The 'dashboard' command authenticates against the monitoring API and starts the interactive terminal dashboard with the charts defined in the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		tui.StartDashboard(ctx, GetConfig(), cancel)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
