package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/todo"
)

// codec converts between a whole data file and its todos.
type codec interface {
	decode(data []byte) ([]todo.Todo, error)
	encode(todos []todo.Todo) ([]byte, error)
}

// fileStore implements todo.Repository over a single file that is read in
// full on every call and rewritten in full on every mutation.
type fileStore struct {
	path  string
	kind  Kind
	codec codec
}

// Path returns the data file path.
func (s *fileStore) Path() string {
	return s.path
}

// FindByID returns the todo with the given ID.
func (s *fileStore) FindByID(id todo.ID) (todo.Todo, error) {
	todos, err := s.read()
	if err != nil {
		return todo.Todo{}, err
	}
	for _, t := range todos {
		if t.ID == id {
			return t, nil
		}
	}
	return todo.Todo{}, &todo.NotFoundError{ID: id}
}

// FindAll returns every todo in file order.
func (s *fileStore) FindAll() ([]todo.Todo, error) {
	return s.read()
}

// Save inserts a todo.
func (s *fileStore) Save(t todo.Todo) (todo.Todo, error) {
	err := s.mutate("save todo", func(todos []todo.Todo) ([]todo.Todo, error) {
		for _, existing := range todos {
			if existing.ID == t.ID {
				return nil, &todo.AlreadyExistsError{ID: t.ID}
			}
		}
		return append(todos, t), nil
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// Update replaces a todo, or appends it if the ID is unknown.
func (s *fileStore) Update(t todo.Todo) (todo.Todo, error) {
	err := s.mutate("update todo", func(todos []todo.Todo) ([]todo.Todo, error) {
		for i, existing := range todos {
			if existing.ID == t.ID {
				todos[i] = t
				return todos, nil
			}
		}
		return append(todos, t), nil
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// DeleteByID removes a todo.
func (s *fileStore) DeleteByID(id todo.ID) error {
	return s.mutate("delete todo", func(todos []todo.Todo) ([]todo.Todo, error) {
		for i, existing := range todos {
			if existing.ID == id {
				return append(todos[:i], todos[i+1:]...), nil
			}
		}
		return nil, &todo.NotFoundError{ID: id}
	})
}

// ReplaceAll rewrites the file to hold exactly todos.
func (s *fileStore) ReplaceAll(todos []todo.Todo) error {
	if err := checkUniqueIDs(todos); err != nil {
		return &todo.ValidationError{Field: "id", Reason: err.Error()}
	}
	return s.mutate("replace todos", func([]todo.Todo) ([]todo.Todo, error) {
		return append([]todo.Todo(nil), todos...), nil
	})
}

// FindByStatus returns the todos with the given status.
func (s *fileStore) FindByStatus(status todo.Status) ([]todo.Todo, error) {
	todos, err := s.read()
	if err != nil {
		return nil, err
	}
	return todo.FilterByStatus(todos, status), nil
}

// FindByPriority returns the todos with the given priority.
func (s *fileStore) FindByPriority(priority todo.Priority) ([]todo.Todo, error) {
	todos, err := s.read()
	if err != nil {
		return nil, err
	}
	return todo.FilterByPriority(todos, priority), nil
}

// Count returns the number of todos.
func (s *fileStore) Count() (int, error) {
	todos, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(todos), nil
}

// read loads the file. A missing or blank file holds no todos.
func (s *fileStore) read() ([]todo.Todo, error) {
	start := time.Now()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("data file missing", "kind", s.kind, "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, todo.NewRepositoryError("read todos", err)
	}
	if internalstrings.IsBlank(string(data)) {
		return nil, nil
	}

	todos, err := s.codec.decode(data)
	if err != nil {
		return nil, todo.NewRepositoryError("parse todos", fmt.Errorf("%s: %w", s.path, err))
	}
	if err := checkUniqueIDs(todos); err != nil {
		return nil, todo.NewRepositoryError("parse todos", fmt.Errorf("%s: %w", s.path, err))
	}
	log.Debug("read data file", "kind", s.kind, "path", s.path, "todos", len(todos), "elapsed", time.Since(start))
	return todos, nil
}

// mutate runs a read-modify-write cycle under the file lock. Domain errors
// returned by fn pass through unwrapped.
func (s *fileStore) mutate(op string, fn func([]todo.Todo) ([]todo.Todo, error)) error {
	return withFileLock(s.path, func() error {
		todos, err := s.read()
		if err != nil {
			return err
		}
		next, err := fn(todos)
		if err != nil {
			return err
		}
		data, err := s.codec.encode(next)
		if err != nil {
			return todo.NewRepositoryError(op, err)
		}
		if err := writeFileAtomic(s.path, data); err != nil {
			return todo.NewRepositoryError(op, err)
		}
		log.Debug("wrote data file", "kind", s.kind, "path", s.path, "todos", len(next), "op", op)
		return nil
	})
}

func checkUniqueIDs(todos []todo.Todo) error {
	seen := make(map[todo.ID]struct{}, len(todos))
	for _, t := range todos {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate todo id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// withFileLock holds an exclusive flock on a sibling lock file while fn
// runs. The data file itself is replaced by rename, so it cannot carry the
// lock.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return todo.NewRepositoryError("create data dir", err)
	}

	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return todo.NewRepositoryError("open lock file", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return todo.NewRepositoryError("acquire lock", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// writeFileAtomic writes data to a temp file beside path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
