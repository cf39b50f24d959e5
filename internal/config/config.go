// Package config resolves which storage backend td uses and persists the
// user's choice in ~/.todo-cli/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/amonks/td/internal/paths"
	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/internal/todoenv"
	"github.com/amonks/td/storage"
)

// DefaultKind is the backend used when nothing else selects one.
const DefaultKind = storage.KindMarkdown

// Source names where a resolved config came from.
type Source string

const (
	SourceExplicit    Source = "command line"
	SourceConfigFile  Source = "config file"
	SourceEnvironment Source = "environment"
	SourceDefault     Source = "default"
)

// Manager reads and writes the persisted backend selection.
type Manager struct {
	// Path is the config file, normally <DataDir>/config.json.
	Path string
	// DataDir holds the default data files for backends without a path.
	DataDir string
}

// fileFormat is the on-disk shape of the config file.
type fileFormat struct {
	DataProvider *storage.Config `json:"dataProvider"`
}

// DefaultManager returns a Manager rooted at TODO_CLI_HOME, or ~/.todo-cli.
func DefaultManager() (*Manager, error) {
	dir, err := paths.ResolveWithDefault(todoenv.AppDir(), paths.DefaultAppDir)
	if err != nil {
		return nil, err
	}
	return NewManager(dir), nil
}

// NewManager returns a Manager for the given application directory.
func NewManager(dir string) *Manager {
	return &Manager{
		Path:    filepath.Join(dir, paths.ConfigFileName),
		DataDir: dir,
	}
}

// Resolve picks the active backend. An explicit config wins, then the
// persisted config file, then the environment, then the Markdown default.
// File paths in the result are always filled in.
func (m *Manager) Resolve(explicit *storage.Config) (storage.Config, error) {
	cfg, _, err := m.ResolveWithSource(explicit)
	return cfg, err
}

// ResolveWithSource is Resolve that also reports which layer won.
func (m *Manager) ResolveWithSource(explicit *storage.Config) (storage.Config, Source, error) {
	cfg, source, err := m.resolve(explicit)
	if err != nil {
		return storage.Config{}, "", err
	}
	cfg, err = m.Complete(cfg)
	if err != nil {
		return storage.Config{}, "", err
	}
	log.Debug("resolved data provider", "kind", cfg.Kind, "path", cfg.FilePath, "source", source)
	return cfg, source, nil
}

func (m *Manager) resolve(explicit *storage.Config) (storage.Config, Source, error) {
	if explicit != nil {
		if err := explicit.Validate(); err != nil {
			return storage.Config{}, "", err
		}
		return *explicit, SourceExplicit, nil
	}

	cfg, found, err := m.Load()
	if err != nil {
		return storage.Config{}, "", err
	}
	if found {
		return cfg, SourceConfigFile, nil
	}

	cfg, found, err = todoenv.Provider()
	if err != nil {
		return storage.Config{}, "", err
	}
	if found {
		return cfg, SourceEnvironment, nil
	}

	return storage.Config{Kind: DefaultKind}, SourceDefault, nil
}

// Complete expands a leading "~" in the file path and fills in the default
// data file for the kind.
func (m *Manager) Complete(cfg storage.Config) (storage.Config, error) {
	path, err := paths.ExpandHome(cfg.FilePath)
	if err != nil {
		return storage.Config{}, err
	}
	cfg.FilePath = path
	return cfg.WithDefaults(m.DataDir), nil
}

// Load reads the config file. found is false when the file is missing,
// blank, or has no dataProvider entry.
func (m *Manager) Load() (cfg storage.Config, found bool, err error) {
	data, err := os.ReadFile(m.Path)
	if errors.Is(err, os.ErrNotExist) {
		return storage.Config{}, false, nil
	}
	if err != nil {
		return storage.Config{}, false, fmt.Errorf("read config file %s: %w", m.Path, err)
	}
	if internalstrings.IsBlank(string(data)) {
		return storage.Config{}, false, nil
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		return storage.Config{}, false, fmt.Errorf("parse config file %s: %w", m.Path, err)
	}
	if file.DataProvider == nil {
		return storage.Config{}, false, nil
	}
	cfg = *file.DataProvider
	if err := cfg.Validate(); err != nil {
		return storage.Config{}, false, fmt.Errorf("config file %s: %w", m.Path, err)
	}
	return cfg, true, nil
}

// Save writes cfg as the persisted selection, replacing the file
// atomically.
func (m *Manager) Save(cfg storage.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fileFormat{DataProvider: &cfg}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmpPath := m.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.Rename(tmpPath, m.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config file: %w", err)
	}
	log.Debug("saved config", "path", m.Path, "kind", cfg.Kind, "file", cfg.FilePath)
	return nil
}

// Switch persists cfg as the active backend and returns it with defaults
// applied. The data itself is not touched.
func (m *Manager) Switch(cfg storage.Config) (storage.Config, error) {
	if err := m.Save(cfg); err != nil {
		return storage.Config{}, err
	}
	resolved, err := m.Complete(cfg)
	if err != nil {
		return storage.Config{}, err
	}
	log.Info("switched data provider", "provider", resolved.String())
	return resolved, nil
}
