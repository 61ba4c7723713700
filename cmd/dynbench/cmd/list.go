package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, sc := range scenarios {
			fmt.Fprintln(cmd.OutOrStdout(), sc.name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
