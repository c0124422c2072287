// Package cmd implements the CLI commands for the cardsmith server.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/cardsmith/internal/config"
	"github.com/donaldgifford/cardsmith/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cardsmith",
	Short: "Generate marketplace product cards with a local LLM",
	Long: "cardsmith turns a product name and a few features into a marketplace-ready " +
		"title, short description and bullet list using a locally hosted LLM. " +
		"It runs as an HTTP API or generates a single card from the command line.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file, falling back to built-in defaults when
// the default path does not exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !cmd.Flags().Changed("config") && !fileExists(cfgFile) {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return log
}
