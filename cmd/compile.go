package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/internal/compiler"
	"github.com/nvpkp/lexi/internal/history"
	"github.com/nvpkp/lexi/internal/ui"
)

// Compile flags
var (
	compileTarget    string
	compileOutput    string
	compileRun       bool
	compileNoHistory bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileTarget, "target", "t", compiler.DefaultTarget, "target language (javascript, python, java, cpp, rust, go, sql, mongodb, redis)")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default <input name>.<ext> in the current directory)")
	compileCmd.Flags().BoolVarP(&compileRun, "run", "r", false, "run the generated program (javascript and python)")
	compileCmd.Flags().BoolVar(&compileNoHistory, "no-history", false, "do not record this compile in the history log")
	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <input>",
	Short: "Compile a .lxi file into source code",
	Long: `Compile an English description (.lxi or .lexi) into source code for the
target language using the active profile's provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := newManager()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		opts := []compiler.Option{
			compiler.WithOutput(out),
			compiler.WithWait(func(ctx context.Context, label string, fn func(context.Context) (string, error)) (string, error) {
				return ui.WithSpinner(ctx, out, label, fn)
			}),
		}

		if !compileNoHistory {
			store, err := history.Open(history.PathFor(configManager.GetConfigPath()))
			if err != nil {
				log.Warn().Err(err).Msg("compile history disabled")
			} else {
				defer store.Close()
				opts = append(opts, compiler.WithRecorder(store))
			}
		}

		_, err = compiler.New(configManager, opts...).Compile(cmd.Context(), compiler.Options{
			Input:  args[0],
			Target: compileTarget,
			Output: compileOutput,
			Run:    compileRun,
		})
		return err
	},
}
