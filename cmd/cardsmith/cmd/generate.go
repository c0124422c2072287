package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/cardsmith/internal/generator"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

type generateFlags struct {
	features string
	audience string
	platform string
	category string
	tone     string
	length   string
	lang     string
	progress bool
}

func init() {
	rootCmd.AddCommand(generateCommand())
}

func generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate NAME",
		Short: "Generate a single product card and print it as JSON",
		Long: "Runs the generation pipeline locally against the configured Ollama backend. " +
			"When the backend cannot be reached a card built from the input is printed " +
			"together with a hint on stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.features, "features", "f", "", "comma separated features and specs")
	fl.StringVar(&f.audience, "audience", "", "target audience")
	fl.StringVar(&f.platform, "platform", "", "marketplace code (ozon, wb, etsy, shopify)")
	fl.StringVar(&f.category, "category", "", "category preset code")
	fl.StringVar(&f.tone, "tone", string(domain.ToneNeutral), "tone: selling, concise, expert, neutral")
	fl.StringVar(&f.length, "length", string(domain.LengthMedium), "description length: short, medium, long")
	fl.StringVar(&f.lang, "lang", "", "content language: ru, en (default from config)")
	fl.BoolVar(&f.progress, "progress", false, "stream the model output and report progress on stderr")

	return cmd
}

func runGenerate(cmd *cobra.Command, name string, f *generateFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	backend := &connectivityWatch{Backend: newBackend(cfg)}
	gen, _ := newGenerator(cfg, backend, log)

	req := domain.GenerationRequest{
		ProductName: name,
		Features:    f.features,
		Audience:    f.audience,
		Platform:    f.platform,
		Category:    f.category,
		Tone:        domain.Tone(f.tone),
		Length:      domain.LengthPreset(f.length),
		Language:    domain.Language(f.lang),
	}.WithDefaults(domain.Language(cfg.Generation.DefaultLanguage), cfg.Generation.DefaultPlatform)

	var progress generator.ProgressFunc
	if f.progress {
		progress = progressPrinter(cmd.ErrOrStderr())
	}

	card, err := gen.Generate(cmd.Context(), req, progress)
	if err != nil {
		if errors.Is(err, generator.ErrInvalidRequest) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return err
	}

	if backend.failed.Load() {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"warning: model unavailable, card built from input; check backend is running at %s\n",
			cfg.LLM.Ollama.Endpoint,
		)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(card)
}

func progressPrinter(w io.Writer) generator.ProgressFunc {
	return func(fraction float64) error {
		_, err := fmt.Fprintf(w, "\rgenerating... %3.0f%%", fraction*100)
		if err == nil && fraction >= 1 {
			_, err = fmt.Fprintln(w)
		}
		return err
	}
}
