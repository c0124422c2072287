package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cardsmith/internal/api/client"
)

func historyCmd() *cobra.Command {
	historyRoot := &cobra.Command{
		Use:   "history",
		Short: "Browse generation history",
		Long: "Browse cards previously generated on the server. History is kept per user\n" +
			"and pruned to the newest entries by the server's retention settings.",
	}

	historyRoot.AddCommand(
		historyListCmd(),
		historyShowCmd(),
	)

	return historyRoot
}

func historyListCmd() *cobra.Command {
	var params apiclient.ListGenerationsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generations",
		Example: `  cardctl history list --user alice
  cardctl history list --platform ozon --limit 50 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params.UserID = userID()

			resp, err := newClient().ListGenerations(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Generations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No generations found.")
				return nil
			}
			if err := printGenerationsTable(cmd.OutOrStdout(), resp.Generations); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d.\n", len(resp.Generations), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Platform, "platform", "", "filter by marketplace code")
	cmd.Flags().IntVar(&params.Limit, "limit", 10, "number of results (max 100)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")

	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored generation",
		Example: `  cardctl history show 42
  cardctl history show 42 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			g, err := newClient().GetGeneration(cmd.Context(), id)
			if apiclient.IsNotFound(err) {
				return fmt.Errorf("generation %d not found", id)
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), g)
			}
			return printGenerationDetail(cmd.OutOrStdout(), g)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid generation ID %q", s)
	}
	return id, nil
}
