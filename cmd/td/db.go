package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/td/storage"
	"github.com/amonks/td/todosync"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect, switch, and sync the data provider",
}

var dbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active data provider and where it was chosen",
	Args:  cobra.NoArgs,
	RunE:  runDBShow,
}

var dbSwitchCmd = &cobra.Command{
	Use:   "switch <provider> [path]",
	Short: "Persist a new data provider",
	Long: `Persist a new data provider in the config file. Existing todos are
not copied; use "td db sync" for that. The provider is json, markdown,
sqlite, or memory. A path may be given alone, in which case the provider
is inferred from its extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDBSwitch,
}

var dbSyncCmd = &cobra.Command{
	Use:   "sync <provider> [path]",
	Short: "Merge the active provider with another and switch to it",
	Long: `Merge todos between the active provider and the given target. When a
todo exists on both sides, the more recently updated copy wins. Both
sides are rewritten with the merged set, and the target becomes the
persisted provider.

Use --provider/--file to sync from something other than the active
provider.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDBSync,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbShowCmd, dbSwitchCmd, dbSyncCmd)
}

func runDBShow(cmd *cobra.Command, args []string) error {
	manager, err := configManager()
	if err != nil {
		return err
	}
	explicit, err := explicitConfig()
	if err != nil {
		return err
	}
	cfg, source, err := manager.ResolveWithSource(explicit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider: %s\n", cfg.Kind.DisplayName())
	if cfg.Kind.HasFile() {
		fmt.Fprintf(out, "File:     %s\n", cfg.FilePath)
	}
	fmt.Fprintf(out, "Source:   %s\n", source)
	fmt.Fprintf(out, "Config:   %s\n", manager.Path)
	return nil
}

func runDBSwitch(cmd *cobra.Command, args []string) error {
	target, err := providerArgsConfig(args)
	if err != nil {
		return err
	}
	manager, err := configManager()
	if err != nil {
		return err
	}
	target, err = manager.Complete(target)
	if err != nil {
		return err
	}
	switched, err := manager.Switch(target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", switched)
	return nil
}

func runDBSync(cmd *cobra.Command, args []string) error {
	target, err := providerArgsConfig(args)
	if err != nil {
		return err
	}
	manager, err := configManager()
	if err != nil {
		return err
	}
	target, err = manager.Complete(target)
	if err != nil {
		return err
	}

	explicit, err := explicitConfig()
	if err != nil {
		return err
	}

	var (
		result todosync.Result
		source string
	)
	if explicit == nil {
		current, err := manager.Resolve(nil)
		if err != nil {
			return err
		}
		source = current.String()
		result, err = todosync.SyncCurrent(target, manager)
		if err != nil {
			return err
		}
	} else {
		from, err := manager.Resolve(explicit)
		if err != nil {
			return err
		}
		source = from.String()
		result, err = todosync.Sync(from, target, manager)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %s -> %s\n", source, target)
	fmt.Fprintf(cmd.OutOrStdout(), "Source had %d, target had %d, merged %d\n", result.SourceBefore, result.TargetBefore, result.Merged)
	return nil
}

// providerArgsConfig parses "<provider> [path]" or a lone "<path>".
func providerArgsConfig(args []string) (storage.Config, error) {
	if len(args) == 2 {
		return parseProviderArgs(args[0], args[1])
	}
	if _, err := storage.ParseKind(args[0]); err == nil {
		return parseProviderArgs(args[0], "")
	}
	if _, ok := storage.KindForPath(args[0]); ok {
		return parseProviderArgs("", args[0])
	}
	return parseProviderArgs(args[0], "")
}
