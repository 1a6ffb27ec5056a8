// internal/cli/list_metrics.go
package metricdeck

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/metricdeck/metricdeck/internal/auth"
	"github.com/metricdeck/metricdeck/internal/monitoring"
	"github.com/spf13/cobra"
)

var metricName = color.New(color.FgGreen).SprintFunc()
var metricKind = color.New(color.FgCyan).SprintFunc()

// listMetricsCmd implements 'list metrics', which enumerates the metric
// descriptors available in the configured project.
var listMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List metric descriptors in the configured project",
	Long:  `The 'metrics' subcommand lists every metric descriptor the monitoring API exposes for the configured project, with its value kind and description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListMetrics(cmd.Context())
	},
}

func init() {
	listCmd.AddCommand(listMetricsCmd)
}

// apiClient builds an authorized monitoring client from the loaded config.
func apiClient(ctx context.Context) (*monitoring.Client, string, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, "", fmt.Errorf("configuration is not initialized")
	}
	project := cfg.Project
	if project == "" {
		if projects := cfg.ProjectList(); len(projects) > 0 {
			project = projects[0]
		}
	}
	if project == "" {
		return nil, "", fmt.Errorf("no project configured; set 'project' in the config or pass --project")
	}

	_, httpClient, err := auth.Authorize(ctx, *cfg)
	if err != nil {
		return nil, "", fmt.Errorf("authorize: %w", err)
	}
	return monitoring.NewClient(cfg.APIBase, httpClient, cfg.Debug), project, nil
}

func runListMetrics(ctx context.Context) error {
	client, project, err := apiClient(ctx)
	if err != nil {
		return err
	}

	metrics, err := client.ListMetricDescriptors(ctx, project)
	if err != nil {
		return fmt.Errorf("list metric descriptors: %w", err)
	}
	if len(metrics) == 0 {
		fmt.Printf("No metrics found in project %s.\n", project)
		return nil
	}

	fmt.Printf("Metrics in project %s:\n", project)
	for _, m := range metrics {
		kind := m.Type.ValueType
		if kind == "" {
			kind = "unknown"
		}
		fmt.Printf("  %s  [%s]\n", metricName(m.Name), metricKind(kind))
		if m.Description != "" {
			fmt.Printf("      %s\n", m.Description)
		}
	}
	return nil
}
