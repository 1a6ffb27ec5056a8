// internal/cli/list_labels.go
package metricdeck

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var labelKey = color.New(color.FgYellow).SprintFunc()

// listLabelsCmd implements 'list labels', which enumerates the label
// descriptors for one metric. These are the keys usable in chart filters.
var listLabelsCmd = &cobra.Command{
	Use:   "labels <metric>",
	Short: "List label descriptors for a metric",
	Long:  `The 'labels' subcommand lists the label descriptors the monitoring API exposes for one metric. Each key can be used in a key==value chart filter.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := apiClient(cmd.Context())
		if err != nil {
			return err
		}

		labels, err := client.ListLabelDescriptors(cmd.Context(), project, args[0])
		if err != nil {
			return fmt.Errorf("list label descriptors: %w", err)
		}
		if len(labels) == 0 {
			fmt.Printf("No labels found for metric %s.\n", args[0])
			return nil
		}

		fmt.Printf("Labels for metric %s:\n", args[0])
		for _, l := range labels {
			fmt.Printf("  %s\n", labelKey(l.Key))
			if l.Description != "" {
				fmt.Printf("      %s\n", l.Description)
			}
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listLabelsCmd)
}
