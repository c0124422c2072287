package cmd

import (
	"github.com/spf13/cobra"
)

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List supported marketplaces and their limits",
		Example: `  cardctl profiles
  cardctl profiles --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := newClient().ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), profiles)
			}
			return printProfilesTable(cmd.OutOrStdout(), profiles)
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "presets",
		Short:   "List category presets",
		Example: `  cardctl presets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := newClient().ListPresets(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), presets)
			}
			return printPresetsTable(cmd.OutOrStdout(), presets)
		},
	}
}
