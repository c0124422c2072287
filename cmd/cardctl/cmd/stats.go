package cmd

import (
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		Example: `  cardctl stats
  cardctl stats --top 20 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := newClient().Stats(cmd.Context(), top)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), stats)
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of most active users to show")

	return cmd
}
