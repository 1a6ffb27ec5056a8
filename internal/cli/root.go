// internal/cli/root.go
package metricdeck

import (
	"fmt"
	"os"

	"github.com/metricdeck/metricdeck/internal/appconfig"
	"github.com/metricdeck/metricdeck/internal/monitoring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metricdeck",
	Short: "metricdeck — terminal dashboard for cloud monitoring time series",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load and validate the config file.
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2) Flags override config file values (flags > config > defaults).
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("project") {
			cfg.Project = viper.GetString("project")
		}
		if cmd.Flags().Changed("timespan") {
			cfg.Timespan = viper.GetString("timespan")
		}
		if cmd.Flags().Changed("refresh") {
			cfg.RefreshSeconds = viper.GetInt("refresh")
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}

		if cfg.Timespan != "" {
			if _, err := monitoring.ParseTimespan(cfg.Timespan); err != nil {
				return fmt.Errorf("invalid timespan: %w", err)
			}
		}

		currentConfig = &cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "log full API request and response payloads")
	rootCmd.PersistentFlags().String("project", "", "monitoring project to query")
	rootCmd.PersistentFlags().String("timespan", "", "default chart lookback (e.g., 15m, 1h, 1d)")
	rootCmd.PersistentFlags().Int("refresh", 0, "seconds between chart refreshes")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("timespan", rootCmd.PersistentFlags().Lookup("timespan"))
	_ = viper.BindPFlag("refresh", rootCmd.PersistentFlags().Lookup("refresh"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
