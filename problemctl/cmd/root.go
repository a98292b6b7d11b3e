package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "problemctl",
	Short:        "Tools for problem files",
	Long:         "problemctl checks problem definitions (title, content and test cases) before they are uploaded.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(versionCmd)
}
