package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/config/validation"
	"github.com/nvpkp/lexi/internal/ui"
)

func init() {
	profileCmd.AddCommand(
		profileListCmd,
		profileUseCmd,
		profileCreateCmd,
		profileDeleteCmd,
		profileCurrentCmd,
		profileSetCmd,
	)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
	Long:  "Create, switch between and delete named configuration profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Long:  "List all profiles with their provider and model, marking the active one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := newManager()
		if err != nil {
			return err
		}
		profiles, err := configManager.List()
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), ui.RenderProfiles(profiles))
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the active profile",
	Long:  "Switch the active profile. Without a name an interactive picker is shown on a terminal.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := newManager()
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if !ui.Interactive() {
				return fmt.Errorf("profile name required when not running in a terminal")
			}
			profiles, err := configManager.List()
			if err != nil {
				return err
			}
			chosen, ok, err := ui.PickProfile(profiles)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			name = chosen
		}

		if err := configManager.SetActive(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Switched to profile '%s'\n", name)
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile and switch to it",
	Long:  "Create a profile with default settings and make it active. Existing profiles are left unchanged.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		configManager, err := newManager()
		if err != nil {
			return err
		}
		created, err := configManager.Create(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !created {
			fmt.Fprintf(out, "⚠️  Profile '%s' already exists\n", name)
			return nil
		}
		fmt.Fprintf(out, "✅ Created and switched to profile '%s'\n", name)
		fmt.Fprintln(out, "💡 Configure it with: lexi config set <key> <value>")
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long:  "Delete a profile. Deleting the active profile switches back to 'default'; 'default' itself cannot be deleted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		configManager, err := newManager()
		if err != nil {
			return err
		}
		switched, err := configManager.Remove(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if switched {
			fmt.Fprintf(out, "🔄 Switched back to '%s' profile\n", models.DefaultProfile)
		}
		fmt.Fprintf(out, "✅ Deleted profile '%s'\n", name)
		return nil
	},
}

var profileCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active profile",
	Long:  "Print the name of the active profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := newManager()
		if err != nil {
			return err
		}
		name, err := configManager.GetActiveName()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "📍 Current profile: %s\n", name)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <profile> <key> <value>",
	Short: "Set a configuration value on a profile",
	Long: `Set a configuration value on the named profile without switching to it.

Keys: provider, model, api_key, base_url, temperature, max_tokens`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, key, value := args[0], args[1], args[2]

		configManager, err := newManager()
		if err != nil {
			return err
		}
		if err := configManager.UpdateKey(name, key, value); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := value
		if key == validation.KeyAPIKey {
			shown = "(hidden)"
		}
		fmt.Fprintf(out, "✅ Set %s = %s for profile '%s'\n", key, shown, name)
		if key == validation.KeyAPIKey {
			fmt.Fprintln(out, "🔐 API key saved securely")
		}
		return nil
	},
}
