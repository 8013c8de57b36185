package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvpkp/lexi/internal/scaffold"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <project_name>",
	Short: "Create a new Lexi project",
	Long:  "Create a project directory with src/, build/, a sample main.lxi, lexi.config.json and a README",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := scaffold.Init(".", args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📚 Created new Lexi project: %s\n", project.Name)
		fmt.Fprintln(out, "📁 Project structure:")
		fmt.Fprintf(out, "   %s/\n", project.Name)
		files := project.Files()
		for i, f := range files {
			branch := "├──"
			if i == len(files)-1 {
				branch = "└──"
			}
			fmt.Fprintf(out, "   %s %s\n", branch, f)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintf(out, "   cd %s\n", project.Name)
		fmt.Fprintln(out, "   lexi config init  # Configure your AI provider")
		fmt.Fprintln(out, "   lexi compile src/main.lxi")
		return nil
	},
}
