// Package storage provides the interchangeable todo backends: an in-process
// memory map, a JSON file, a Markdown file, and a SQLite database.
//
// The file backends hold no open handles between calls. Every operation
// reads the whole file, and every mutation rewrites it through a temp file
// and rename.
package storage

import (
	"fmt"
	"path/filepath"

	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/internal/validation"
	"github.com/amonks/td/todo"
)

// Kind names a backend.
type Kind string

const (
	KindJSON     Kind = "json"
	KindMarkdown Kind = "markdown"
	KindMemory   Kind = "memory"
	KindSQLite   Kind = "sqlite"
)

// ValidKinds returns all backend kinds.
func ValidKinds() []Kind {
	return []Kind{KindJSON, KindMarkdown, KindMemory, KindSQLite}
}

// IsValid returns true if the kind is a known backend.
func (k Kind) IsValid() bool {
	for _, valid := range ValidKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// HasFile reports whether backends of this kind persist to a file.
func (k Kind) HasFile() bool {
	return k == KindJSON || k == KindMarkdown || k == KindSQLite
}

// DisplayName returns the human-readable backend name.
func (k Kind) DisplayName() string {
	switch k {
	case KindJSON:
		return "JSON"
	case KindMarkdown:
		return "Markdown"
	case KindMemory:
		return "Memory"
	case KindSQLite:
		return "SQLite"
	default:
		return string(k)
	}
}

// DefaultFileName returns the data file name used when no path is configured.
func (k Kind) DefaultFileName() string {
	switch k {
	case KindJSON:
		return "todos.json"
	case KindMarkdown:
		return "todos.md"
	case KindSQLite:
		return "todos.db"
	default:
		return ""
	}
}

// ParseKind converts user or file input into a Kind.
func ParseKind(value string) (Kind, error) {
	kind := Kind(internalstrings.NormalizeLowerTrimSpace(value))
	if kind == "md" {
		kind = KindMarkdown
	}
	if !kind.IsValid() {
		return "", &todo.ValidationError{Field: "type", Reason: validation.UnknownValueReason("data provider", value, ValidKinds())}
	}
	return kind, nil
}

// KindForPath guesses a backend from a file extension: .json, .md or
// .markdown, and .db, .sqlite or .sqlite3.
func KindForPath(path string) (Kind, bool) {
	switch internalstrings.NormalizeLowerTrimSpace(filepath.Ext(path)) {
	case ".json":
		return KindJSON, true
	case ".md", ".markdown":
		return KindMarkdown, true
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, true
	default:
		return "", false
	}
}

// Config selects a backend. Only file-backed kinds carry a FilePath; an
// empty FilePath means "the default location".
type Config struct {
	Kind     Kind   `json:"type"`
	FilePath string `json:"filePath,omitempty"`
}

// JSON returns a JSON-file config.
func JSON(path string) Config { return Config{Kind: KindJSON, FilePath: path} }

// Markdown returns a Markdown-file config.
func Markdown(path string) Config { return Config{Kind: KindMarkdown, FilePath: path} }

// SQLite returns a SQLite-database config.
func SQLite(path string) Config { return Config{Kind: KindSQLite, FilePath: path} }

// Memory returns a memory config.
func Memory() Config { return Config{Kind: KindMemory} }

// New builds a config from a kind and optional path, validating the pair.
func New(kind Kind, path string) (Config, error) {
	cfg := Config{Kind: kind, FilePath: path}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown kinds and memory configs with a file path.
func (c Config) Validate() error {
	if !c.Kind.IsValid() {
		return &todo.ValidationError{Field: "type", Reason: validation.UnknownValueReason("data provider", string(c.Kind), ValidKinds())}
	}
	if !c.Kind.HasFile() && c.FilePath != "" {
		return &todo.ValidationError{Field: "filePath", Reason: fmt.Sprintf("%s provider does not take a file path", c.Kind)}
	}
	return nil
}

// WithDefaults fills an empty file path with the kind's default file in dir.
func (c Config) WithDefaults(dir string) Config {
	if c.Kind.HasFile() && c.FilePath == "" {
		c.FilePath = filepath.Join(dir, c.Kind.DefaultFileName())
	}
	return c
}

// SameBackend reports whether two configs denote the same storage. File
// paths are compared after cleaning and making them absolute.
func (c Config) SameBackend(other Config) bool {
	if c.Kind != other.Kind {
		return false
	}
	if !c.Kind.HasFile() {
		return true
	}
	return normalizePath(c.FilePath) == normalizePath(other.FilePath)
}

// String describes the config for messages, e.g. "JSON (/tmp/todos.json)".
func (c Config) String() string {
	if c.FilePath == "" {
		return c.Kind.DisplayName()
	}
	return fmt.Sprintf("%s (%s)", c.Kind.DisplayName(), c.FilePath)
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
