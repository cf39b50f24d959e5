// Package listflags holds flags shared by commands that list todos.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds --all/-a, which includes completed todos.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, "Include completed todos")
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, "Include completed todos")
}
