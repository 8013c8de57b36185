package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/internal/ui"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers",
	Long:  "List the supported LLM providers with their default endpoint, model and required settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderProviders())
		return nil
	},
}
