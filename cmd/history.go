package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/internal/history"
	"github.com/nvpkp/lexi/internal/ui"
)

// History flags
var (
	historyLimit int
	historyClear bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all recorded compiles")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent compiles",
	Long:  "Show recent compiles recorded next to the config file, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 1 {
			return fmt.Errorf("--limit must be at least 1")
		}

		configManager, err := newManager()
		if err != nil {
			return err
		}
		store, err := history.Open(history.PathFor(configManager.GetConfigPath()))
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if historyClear {
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "🧹 Cleared %d history entries\n", n)
			return nil
		}

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprint(out, ui.RenderHistory(entries))
		return nil
	},
}
