package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cardsmith/internal/api/client"
	"github.com/donaldgifford/cardsmith/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored generation as txt or csv",
		Example: `  cardctl export 42
  cardctl export 42 --format csv --file card_42.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			data, err := newClient().ExportGeneration(cmd.Context(), id, string(f))
			if apiclient.IsNotFound(err) {
				return fmt.Errorf("generation %d not found", id)
			}
			if err != nil {
				return err
			}

			if file == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatText), "export format (txt, csv)")
	cmd.Flags().StringVar(&file, "file", "", "write to this file instead of stdout")

	return cmd
}
