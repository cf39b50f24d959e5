// Package main implements the td CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amonks/td/internal/config"
	"github.com/amonks/td/internal/logging"
	"github.com/amonks/td/internal/todoenv"
	"github.com/amonks/td/storage"
	"github.com/amonks/td/todo"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "td - a todo list with interchangeable storage",
	Long: `td keeps a todo list in a Markdown file, a JSON file, a SQLite
database, or in memory. The backend comes from --provider/--file, then
~/.todo-cli/config.json, then TODO_PROVIDER_TYPE, and defaults to
Markdown at ~/.todo-cli/todos.md.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	globalProvider  string
	globalFile      string
	globalLogLevel  string
	globalLogFormat string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalProvider, "provider", "", "Data provider for this command (json, markdown, memory, sqlite)")
	flags.StringVar(&globalFile, "file", "", "Data file for this command; the provider is inferred from the extension when --provider is not set")
	flags.StringVar(&globalLogLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+todoenv.LogLevelEnvVar+" or warn")
	flags.StringVar(&globalLogFormat, "log-format", "", "Log format (text, json, logfmt); defaults to $"+todoenv.LogFormatEnvVar+" or text")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := globalLogLevel
	if level == "" {
		level = todoenv.LogLevel()
	}
	format := globalLogFormat
	if format == "" {
		format = todoenv.LogFormat()
	}
	_, err := logging.Setup(cmd.ErrOrStderr(), level, format)
	return err
}

func configManager() (*config.Manager, error) {
	return config.DefaultManager()
}

// explicitConfig builds a config from --provider and --file, or returns
// nil when neither is set.
func explicitConfig() (*storage.Config, error) {
	if globalProvider == "" && globalFile == "" {
		return nil, nil
	}
	cfg, err := parseProviderArgs(globalProvider, globalFile)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseProviderArgs turns a provider name and optional path into a config.
// A missing provider is inferred from the path's extension. Relative paths
// are made absolute so they survive being persisted.
func parseProviderArgs(provider, path string) (storage.Config, error) {
	var kind storage.Kind
	if provider != "" {
		parsed, err := storage.ParseKind(provider)
		if err != nil {
			return storage.Config{}, err
		}
		kind = parsed
	} else {
		inferred, ok := storage.KindForPath(path)
		if !ok {
			return storage.Config{}, fmt.Errorf("cannot infer provider from %q; pass --provider", path)
		}
		kind = inferred
	}

	if path != "" && kind.HasFile() && !filepath.IsAbs(path) && path[0] != '~' {
		abs, err := filepath.Abs(path)
		if err != nil {
			return storage.Config{}, fmt.Errorf("resolve %s: %w", path, err)
		}
		path = abs
	}
	return storage.New(kind, path)
}

// resolveConfig returns the backend selected for this invocation.
func resolveConfig() (storage.Config, *config.Manager, error) {
	manager, err := configManager()
	if err != nil {
		return storage.Config{}, nil, err
	}
	explicit, err := explicitConfig()
	if err != nil {
		return storage.Config{}, nil, err
	}
	cfg, err := manager.Resolve(explicit)
	if err != nil {
		return storage.Config{}, nil, err
	}
	return cfg, manager, nil
}

// openRepository opens the backend selected for this invocation.
func openRepository() (todo.Repository, error) {
	cfg, _, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Kind == storage.KindMemory {
		log.Warn("memory provider does not keep todos between commands")
	}
	return storage.Open(cfg)
}
