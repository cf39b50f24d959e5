package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildVersion = "dev"
var buildCommit = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the td version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func versionString() string {
	return fmt.Sprintf("td %s (commit %s)", buildVersion, buildCommit)
}
