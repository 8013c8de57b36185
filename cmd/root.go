package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/config"
	"github.com/nvpkp/lexi/internal/compiler"
	"github.com/nvpkp/lexi/internal/logging"
)

// Global flags
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lexi",
	Short: "Compile plain-English descriptions into source code",
	Long: `Lexi turns English descriptions written in .lxi files into source code
using a configurable LLM provider (OpenAI, Anthropic, Ollama or Azure OpenAI).`,
	Version:       compiler.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, cmd.ErrOrStderr())

		// A missing .env is normal
		if err := godotenv.Load(); err == nil {
			log.Debug().Msg("loaded .env")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $LEXI_CONFIG or ~/.lexi/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetVersionTemplate("lexi {{.Version}}\n")
}

// Execute runs the root command. Errors are returned to main, which owns
// the exit status.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newManager returns the profile store selected by --config
func newManager() (*config.Manager, error) {
	if configPath != "" {
		return config.NewManager(configPath), nil
	}
	configManager, err := config.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}
	return configManager, nil
}
