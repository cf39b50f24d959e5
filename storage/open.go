package storage

import (
	"fmt"

	"github.com/amonks/td/todo"
)

// Open returns the backend described by cfg. File-backed kinds need a
// FilePath; apply Config.WithDefaults first to use the default location.
func Open(cfg Config) (todo.Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Kind.HasFile() && cfg.FilePath == "" {
		return nil, &todo.ValidationError{Field: "filePath", Reason: fmt.Sprintf("%s provider requires a file path", cfg.Kind)}
	}

	switch cfg.Kind {
	case KindJSON:
		return NewJSONStore(cfg.FilePath), nil
	case KindMarkdown:
		return NewMarkdownStore(cfg.FilePath), nil
	case KindSQLite:
		return NewSQLiteStore(cfg.FilePath), nil
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported data provider %q", cfg.Kind)
	}
}
