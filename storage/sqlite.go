package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-sqlite3"

	"github.com/amonks/td/todo"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT,
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	due_date    INTEGER
);
CREATE INDEX IF NOT EXISTS todos_status ON todos (status);
CREATE INDEX IF NOT EXISTS todos_priority ON todos (priority);
`

const sqliteColumns = `id, title, description, status, priority, created_at, updated_at, due_date`

// SQLiteStore persists todos in a SQLite database. Timestamps are stored
// as epoch milliseconds. FindAll returns the newest todos first.
//
// Like the file backends it holds nothing open between calls: each call
// opens the database, runs, and closes it.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a store backed by the database at path. The file
// and schema are created on first use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) withDB(op string, fn func(*sql.DB) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return todo.NewRepositoryError(op, fmt.Errorf("create parent dir: %w", err))
	}
	db, err := sql.Open("sqlite3", s.path+"?_busy_timeout=5000")
	if err != nil {
		return todo.NewRepositoryError(op, err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return todo.NewRepositoryError(op, fmt.Errorf("create schema: %w", err))
	}
	log.Debug("opened database", "path", s.path, "op", op)
	return fn(db)
}

// FindByID returns the todo with the given ID.
func (s *SQLiteStore) FindByID(id todo.ID) (todo.Todo, error) {
	var found todo.Todo
	err := s.withDB("find todo", func(db *sql.DB) error {
		row := db.QueryRow(`SELECT `+sqliteColumns+` FROM todos WHERE id = ?`, id.String())
		t, err := scanTodo(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &todo.NotFoundError{ID: id}
		}
		if err != nil {
			return todo.NewRepositoryError("find todo", err)
		}
		found = t
		return nil
	})
	return found, err
}

// FindAll returns every todo, newest first.
func (s *SQLiteStore) FindAll() ([]todo.Todo, error) {
	return s.query("find todos", `SELECT `+sqliteColumns+` FROM todos ORDER BY created_at DESC, id`)
}

// FindByStatus returns the todos with the given status.
func (s *SQLiteStore) FindByStatus(status todo.Status) ([]todo.Todo, error) {
	return s.query("find todos by status",
		`SELECT `+sqliteColumns+` FROM todos WHERE status = ? ORDER BY created_at DESC, id`, string(status))
}

// FindByPriority returns the todos with the given priority.
func (s *SQLiteStore) FindByPriority(priority todo.Priority) ([]todo.Todo, error) {
	return s.query("find todos by priority",
		`SELECT `+sqliteColumns+` FROM todos WHERE priority = ? ORDER BY created_at DESC, id`, string(priority))
}

func (s *SQLiteStore) query(op, query string, args ...any) ([]todo.Todo, error) {
	var todos []todo.Todo
	err := s.withDB(op, func(db *sql.DB) error {
		rows, err := db.Query(query, args...)
		if err != nil {
			return todo.NewRepositoryError(op, err)
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTodo(rows)
			if err != nil {
				return todo.NewRepositoryError(op, err)
			}
			todos = append(todos, t)
		}
		return todo.NewRepositoryError(op, rows.Err())
	})
	return todos, err
}

// Save inserts a todo.
func (s *SQLiteStore) Save(t todo.Todo) (todo.Todo, error) {
	err := s.withDB("save todo", func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO todos (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, todoArgs(t)...)
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return &todo.AlreadyExistsError{ID: t.ID}
		}
		return todo.NewRepositoryError("save todo", err)
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// Update replaces a todo, or inserts it if the ID is unknown.
func (s *SQLiteStore) Update(t todo.Todo) (todo.Todo, error) {
	err := s.withDB("update todo", func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO todos (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				status = excluded.status,
				priority = excluded.priority,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				due_date = excluded.due_date`, todoArgs(t)...)
		return todo.NewRepositoryError("update todo", err)
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// DeleteByID removes a todo.
func (s *SQLiteStore) DeleteByID(id todo.ID) error {
	return s.withDB("delete todo", func(db *sql.DB) error {
		result, err := db.Exec(`DELETE FROM todos WHERE id = ?`, id.String())
		if err != nil {
			return todo.NewRepositoryError("delete todo", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return todo.NewRepositoryError("delete todo", err)
		}
		if affected == 0 {
			return &todo.NotFoundError{ID: id}
		}
		return nil
	})
}

// ReplaceAll swaps the table contents for todos in one transaction.
func (s *SQLiteStore) ReplaceAll(todos []todo.Todo) error {
	return s.withDB("replace todos", func(db *sql.DB) error {
		tx, err := db.Begin()
		if err != nil {
			return todo.NewRepositoryError("replace todos", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM todos`); err != nil {
			return todo.NewRepositoryError("replace todos", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO todos (` + sqliteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return todo.NewRepositoryError("replace todos", err)
		}
		defer stmt.Close()
		for _, t := range todos {
			if _, err := stmt.Exec(todoArgs(t)...); err != nil {
				return todo.NewRepositoryError("replace todos", fmt.Errorf("insert %s: %w", t.ID, err))
			}
		}
		return todo.NewRepositoryError("replace todos", tx.Commit())
	})
}

// Count returns the number of todos.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	err := s.withDB("count todos", func(db *sql.DB) error {
		return todo.NewRepositoryError("count todos", db.QueryRow(`SELECT COUNT(*) FROM todos`).Scan(&count))
	})
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (todo.Todo, error) {
	var (
		id, title, status, priority string
		description                 sql.NullString
		createdAt, updatedAt        int64
		dueDate                     sql.NullInt64
	)
	if err := row.Scan(&id, &title, &description, &status, &priority, &createdAt, &updatedAt, &dueDate); err != nil {
		return todo.Todo{}, err
	}

	parsedStatus, err := todo.ParseStatus(status)
	if err != nil {
		return todo.Todo{}, err
	}
	t := todo.Todo{
		ID:          todo.ID(id),
		Title:       title,
		Description: description.String,
		Status:      parsedStatus,
		Priority:    todo.Priority(priority),
		CreatedAt:   todo.FromUnixMilli(createdAt),
		UpdatedAt:   todo.FromUnixMilli(updatedAt),
	}
	if dueDate.Valid {
		due := todo.FromUnixMilli(dueDate.Int64)
		t.DueDate = &due
	}
	if err := todo.ValidateTodo(t); err != nil {
		return todo.Todo{}, fmt.Errorf("row %s: %w", id, err)
	}
	return t, nil
}

func todoArgs(t todo.Todo) []any {
	var description sql.NullString
	if t.Description != "" {
		description = sql.NullString{String: t.Description, Valid: true}
	}
	var dueDate sql.NullInt64
	if t.DueDate != nil {
		dueDate = sql.NullInt64{Int64: t.DueDate.UnixMilli(), Valid: true}
	}
	return []any{
		t.ID.String(),
		t.Title,
		description,
		string(t.Status),
		string(t.Priority),
		t.CreatedAt.UnixMilli(),
		t.UpdatedAt.UnixMilli(),
		dueDate,
	}
}
