package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/config"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/check"
	"github.com/nvpkp/lexi/internal/compiler"
)

// Ping flags
var (
	pingAll  bool
	pingJSON bool
)

func init() {
	pingCmd.Flags().BoolVarP(&pingAll, "all", "a", false, "check every profile")
	pingCmd.Flags().BoolVar(&pingJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(pingCmd)
}

var pingCmd = &cobra.Command{
	Use:   "ping [profile]",
	Short: "Check that a profile can reach its provider",
	Long: `Send a minimal request with a profile's settings and report which step fails.

1. Check the active profile:
   lexi ping

2. Check a specific profile:
   lexi ping work

3. Check every profile:
   lexi ping --all --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pingAll && len(args) == 1 {
			return apperr.Input("--all cannot be combined with a profile name")
		}

		configManager, err := newManager()
		if err != nil {
			return err
		}
		targets, err := pingTargets(configManager, args)
		if err != nil {
			return err
		}

		checker := check.NewChecker()
		results := make([]*check.Result, 0, len(targets))
		for _, p := range targets {
			results = append(results, checker.Run(cmd.Context(), p.Name, compiler.WithEnvAPIKey(p.Config)))
		}

		if err := check.NewReporter(cmd.OutOrStdout(), pingJSON).Report(results); err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			if res.Level == check.LevelFailed {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d profiles not ready", failed, len(results))
		}
		return nil
	},
}

// pingTargets resolves the profiles named on the command line
func pingTargets(configManager *config.Manager, args []string) ([]config.Profile, error) {
	if pingAll {
		return configManager.List()
	}
	if len(args) == 1 {
		cfg, err := configManager.Get(args[0])
		if err != nil {
			return nil, err
		}
		return []config.Profile{{Name: args[0], Config: cfg}}, nil
	}
	name, cfg, err := configManager.GetActive()
	if err != nil {
		return nil, err
	}
	return []config.Profile{{Name: name, Active: true, Config: cfg}}, nil
}
