package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/config/validation"
	"github.com/nvpkp/lexi/internal/ui"
	"github.com/nvpkp/lexi/internal/utils"
)

func init() {
	configCmd.AddCommand(configSetCmd, configListCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the active profile's configuration",
	Long:  "Show or change the provider, model, API key and generation settings of the active profile",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value on the active profile",
	Long: `Set a configuration value on the active profile.

Keys: provider, model, api_key, base_url, temperature, max_tokens`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		configManager, err := newManager()
		if err != nil {
			return err
		}
		if _, err := configManager.UpdateActiveKey(key, value); err != nil {
			return err
		}

		printSet(cmd.OutOrStdout(), key, value)
		if key == validation.KeyAPIKey {
			fmt.Fprintf(cmd.OutOrStdout(), "🔐 API key saved securely to %s\n", configManager.GetConfigPath())
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active profile's configuration",
	Long:  "Show the active profile's configuration with the API key masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := newManager()
		if err != nil {
			return err
		}
		name, cfg, err := configManager.GetActive()
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), ui.RenderConfig(name, cfg))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Show how to configure a provider",
	Long:  "Print the supported providers and example setup commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), ui.ConfigGuide)
		return nil
	},
}

// printSet confirms a stored value without echoing secrets
func printSet(w io.Writer, key, value string) {
	if key == validation.KeyAPIKey {
		value = utils.MaskAPIKey(value)
	}
	fmt.Fprintf(w, "✅ Set %s = %s\n", key, value)
}
