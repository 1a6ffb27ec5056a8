// internal/cli/show_config.go
package metricdeck

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showConfigCmd implements the 'show config' command, which displays the
// current configuration settings after file load and flag overrides.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		if cfg == nil {
			fmt.Println("configuration is not initialized")
			return
		}
		fmt.Printf("Config file: %s\n\n", cfg.ConfigPath)
		pp.Println(cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
