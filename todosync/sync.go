// Package todosync copies todos between two backends, resolving conflicts
// by last write wins, and then makes the target the active backend.
package todosync

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/amonks/td/storage"
	"github.com/amonks/td/todo"
)

// ErrSameBackend is returned when source and target denote the same storage.
var ErrSameBackend = errors.New("cannot sync a data provider with itself")

// ConfigSaver persists the active backend selection.
type ConfigSaver interface {
	Save(cfg storage.Config) error
}

// Resolver reports the active backend selection.
type Resolver interface {
	Resolve(explicit *storage.Config) (storage.Config, error)
}

// Manager resolves and persists the active backend selection.
type Manager interface {
	Resolver
	ConfigSaver
}

// Opener returns the repository for a config.
type Opener func(storage.Config) (todo.Repository, error)

// Result summarizes a completed sync.
type Result struct {
	// Merged is the number of todos written to the target.
	Merged int
	// SourceBefore and TargetBefore count each side before the sync.
	SourceBefore int
	TargetBefore int
}

type options struct {
	open Opener
}

// Option configures Sync.
type Option func(*options)

// WithOpener replaces storage.Open, e.g. to share memory stores in tests.
func WithOpener(open Opener) Option {
	return func(o *options) {
		o.open = open
	}
}

// Merge combines two datasets. Every target todo is kept unless the source
// holds the same ID with a strictly newer UpdatedAt; equal timestamps keep
// the target's copy. Target order is preserved, followed by source-only
// todos in source order.
func Merge(source, target []todo.Todo) []todo.Todo {
	merged := make([]todo.Todo, 0, len(target)+len(source))
	index := make(map[todo.ID]int, len(target)+len(source))
	for _, t := range target {
		if i, ok := index[t.ID]; ok {
			merged[i] = t
			continue
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}
	for _, s := range source {
		i, ok := index[s.ID]
		if !ok {
			index[s.ID] = len(merged)
			merged = append(merged, s)
			continue
		}
		if s.UpdatedAt.After(merged[i].UpdatedAt) {
			merged[i] = s
		}
	}
	return merged
}

// Sync merges source and target, writes the merged set to both (the source
// only when it is persistent), and saves target as the active backend.
//
// Backends implementing Replacer are rewritten in a single step. Others are
// cleared and then refilled, and a failure part way through leaves that
// side partially written; running Sync again repairs it.
func Sync(source, target storage.Config, saver ConfigSaver, opts ...Option) (Result, error) {
	o := options{open: storage.Open}
	for _, opt := range opts {
		opt(&o)
	}

	if source.SameBackend(target) {
		return Result{}, fmt.Errorf("%w: %s", ErrSameBackend, target)
	}

	sourceRepo, err := o.open(source)
	if err != nil {
		return Result{}, fmt.Errorf("open source: %w", err)
	}
	targetRepo, err := o.open(target)
	if err != nil {
		return Result{}, fmt.Errorf("open target: %w", err)
	}

	sourceTodos, err := sourceRepo.FindAll()
	if err != nil {
		return Result{}, fmt.Errorf("read source: %w", err)
	}
	targetTodos, err := targetRepo.FindAll()
	if err != nil {
		return Result{}, fmt.Errorf("read target: %w", err)
	}

	merged := Merge(sourceTodos, targetTodos)
	result := Result{
		Merged:       len(merged),
		SourceBefore: len(sourceTodos),
		TargetBefore: len(targetTodos),
	}

	if source.Kind != storage.KindMemory {
		if err := replaceAll(sourceRepo, sourceTodos, merged); err != nil {
			return Result{}, fmt.Errorf("write source: %w", err)
		}
	}
	if err := replaceAll(targetRepo, targetTodos, merged); err != nil {
		return Result{}, fmt.Errorf("write target: %w", err)
	}

	if err := saver.Save(target); err != nil {
		return Result{}, fmt.Errorf("save config: %w", err)
	}

	log.Info("synced data providers",
		"source", source.String(),
		"target", target.String(),
		"merged", result.Merged,
		"source_before", result.SourceBefore,
		"target_before", result.TargetBefore,
	)
	return result, nil
}

// SyncCurrent syncs the currently active backend into target.
func SyncCurrent(target storage.Config, manager Manager, opts ...Option) (Result, error) {
	current, err := manager.Resolve(nil)
	if err != nil {
		return Result{}, fmt.Errorf("resolve current provider: %w", err)
	}
	return Sync(current, target, manager, opts...)
}

// Replacer is implemented by backends that can swap their whole dataset in
// one write.
type Replacer interface {
	ReplaceAll(todos []todo.Todo) error
}

// replaceAll makes todos the full contents of repo, in one write when the
// backend supports it and by delete-then-save otherwise.
func replaceAll(repo todo.Repository, existing, todos []todo.Todo) error {
	if replacer, ok := repo.(Replacer); ok {
		return replacer.ReplaceAll(todos)
	}
	for _, t := range existing {
		if err := repo.DeleteByID(t.ID); err != nil {
			return fmt.Errorf("clear %s: %w", t.ID, err)
		}
	}
	for _, t := range todos {
		if _, err := repo.Save(t); err != nil {
			return fmt.Errorf("save %s: %w", t.ID, err)
		}
	}
	return nil
}
