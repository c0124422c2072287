package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cardsmith/internal/api/client"
)

func generateCmd() *cobra.Command {
	var (
		params apiclient.GenerateParams
		stream bool
	)

	cmd := &cobra.Command{
		Use:   "generate <product name>",
		Short: "Generate a product card on the server",
		Long: "Sends a product name and optional features to the cardsmith server and prints\n" +
			"the generated title, short description and bullets.",
		Example: `  cardctl generate "Logitech M185" -f "2.4GHz, silent clicks" --platform wb
  cardctl generate "Ceramic vase" --platform etsy --lang en --tone expert --stream
  cardctl generate "Mouse" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.ProductName = args[0]
			params.UserID = userID()

			c := newClient()
			var (
				result *apiclient.GenerateResult
				err    error
			)
			if stream {
				result, err = c.GenerateStream(cmd.Context(), &params, func(f float64) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\rgenerating... %3.0f%%", f*100)
				})
				fmt.Fprintln(cmd.ErrOrStderr())
			} else {
				result, err = c.Generate(cmd.Context(), &params)
			}
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), result)
			}
			return printCard(cmd.OutOrStdout(), result)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&params.Features, "features", "f", "", "comma separated features and specs")
	fl.StringVar(&params.Audience, "audience", "", "target audience")
	fl.StringVar(&params.Platform, "platform", "", "marketplace code (ozon, wb, etsy, shopify)")
	fl.StringVar(&params.Category, "category", "", "category preset code")
	fl.StringVar(&params.Tone, "tone", "", "tone: selling, concise, expert, neutral")
	fl.StringVar(&params.Length, "length", "", "description length: short, medium, long")
	fl.StringVar(&params.Language, "lang", "", "content language: ru, en")
	fl.BoolVar(&stream, "stream", false, "stream progress from the server")

	return cmd
}
