// Package todoenv reads the environment variables that select a backend.
package todoenv

import (
	"os"
	"strings"

	"github.com/amonks/td/storage"
)

const (
	// ProviderTypeEnvVar selects the backend kind.
	ProviderTypeEnvVar = "TODO_PROVIDER_TYPE"
	// JSONFilePathEnvVar overrides the JSON data file.
	JSONFilePathEnvVar = "TODO_JSON_FILE_PATH"
	// MarkdownFilePathEnvVar overrides the Markdown data file.
	MarkdownFilePathEnvVar = "TODO_MARKDOWN_FILE_PATH"
	// SQLiteFilePathEnvVar overrides the SQLite database file.
	SQLiteFilePathEnvVar = "TODO_SQLITE_FILE_PATH"
	// HomeEnvVar overrides the application directory (~/.todo-cli).
	HomeEnvVar = "TODO_CLI_HOME"
	// LogLevelEnvVar sets the log level when --log-level is not given.
	LogLevelEnvVar = "TD_LOG_LEVEL"
	// LogFormatEnvVar selects text, json or logfmt log output.
	LogFormatEnvVar = "TD_LOG_FORMAT"
)

// FilePathEnvVar returns the path override variable for a kind, or "".
func FilePathEnvVar(kind storage.Kind) string {
	switch kind {
	case storage.KindJSON:
		return JSONFilePathEnvVar
	case storage.KindMarkdown:
		return MarkdownFilePathEnvVar
	case storage.KindSQLite:
		return SQLiteFilePathEnvVar
	default:
		return ""
	}
}

// Provider returns the backend selected by the environment. ok is false
// when TODO_PROVIDER_TYPE is unset or blank. An unknown type is an error.
func Provider() (cfg storage.Config, ok bool, err error) {
	raw := strings.TrimSpace(os.Getenv(ProviderTypeEnvVar))
	if raw == "" {
		return storage.Config{}, false, nil
	}
	kind, err := storage.ParseKind(raw)
	if err != nil {
		return storage.Config{}, false, err
	}
	cfg = storage.Config{Kind: kind}
	if name := FilePathEnvVar(kind); name != "" {
		cfg.FilePath = strings.TrimSpace(os.Getenv(name))
	}
	return cfg, true, nil
}

// AppDir returns the TODO_CLI_HOME override, or "".
func AppDir() string {
	return strings.TrimSpace(os.Getenv(HomeEnvVar))
}

// LogLevel returns the TD_LOG_LEVEL value, or "".
func LogLevel() string {
	return strings.TrimSpace(os.Getenv(LogLevelEnvVar))
}

// LogFormat returns the TD_LOG_FORMAT value, or "".
func LogFormat() string {
	return strings.TrimSpace(os.Getenv(LogFormatEnvVar))
}
