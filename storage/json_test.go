package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amonks/td/todo"
)

func TestJSONStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "todos.json")
	store := NewJSONStore(path)

	item := sampleTodo("abcdefgh1234", "Buy milk", todo.StatusUnstarted, todo.PriorityMedium, 0)
	if _, err := store.Save(item); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `[
  {
    "id": "abcdefgh1234",
    "title": "Buy milk",
    "status": "unstarted",
    "priority": "medium",
    "createdAt": "2024-01-15T10:30:00.000Z",
    "updatedAt": "2024-01-15T10:30:00.000Z"
  }
]
`
	if string(data) != want {
		t.Fatalf("unexpected file:\n%s", data)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestJSONStore_EmptyAfterDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	store := NewJSONStore(path)
	item := sampleTodo("abcdefgh1234", "Temporary", todo.StatusUnstarted, todo.PriorityLow, 0)
	if _, err := store.Save(item); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteByID(item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[]\n" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestJSONStore_BlankFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	all, err := NewJSONStore(path).FindAll()
	if err != nil || len(all) != 0 {
		t.Fatalf("find all = %v, %v", all, err)
	}
}

func TestJSONStore_ReadsLegacyPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	content := `[{"id":"abcdefgh1234","title":"Old","status":"pending","priority":"low",` +
		`"createdAt":"2023-05-01T08:00:00Z","updatedAt":"2023-05-02T08:00:00.250Z","dueDate":null}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	found, err := NewJSONStore(path).FindByID("abcdefgh1234")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Status != todo.StatusUnstarted {
		t.Fatalf("status = %q", found.Status)
	}
	if found.DueDate != nil {
		t.Fatalf("due = %v", found.DueDate)
	}
	if want := time.Date(2023, 5, 2, 8, 0, 0, 250*int(time.Millisecond), time.UTC); !found.UpdatedAt.Equal(want) {
		t.Fatalf("updatedAt = %v", found.UpdatedAt)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		detail  string
	}{
		{name: "syntax", content: `[{"id":`, detail: "invalid JSON"},
		{name: "not an array", content: `{"id":"abcdefgh1234"}`, detail: "schema validation failed"},
		{name: "bad status", content: `[{"id":"abcdefgh1234","title":"x","status":"blocked","priority":"low",` +
			`"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}]`, detail: "/0/status"},
		{name: "missing title", content: `[{"id":"abcdefgh1234","status":"unstarted","priority":"low",` +
			`"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}]`, detail: "schema validation failed"},
		{name: "bad timestamp", content: `[{"id":"abcdefgh1234","title":"x","status":"unstarted","priority":"low",` +
			`"createdAt":"yesterday","updatedAt":"2024-01-01T00:00:00.000Z"}]`, detail: "/0/createdAt"},
		{name: "duplicate ids", content: `[` +
			`{"id":"abcdefgh1234","title":"x","status":"unstarted","priority":"low","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"},` +
			`{"id":"abcdefgh1234","title":"y","status":"unstarted","priority":"low","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}]`,
			detail: "duplicate todo id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todos.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := NewJSONStore(path).FindAll()
			if !errors.Is(err, todo.ErrRepository) {
				t.Fatalf("expected repository error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Fatalf("expected %q in %v", tt.detail, err)
			}
		})
	}
}

func TestJSONStore_CorruptFileBlocksWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewJSONStore(path).Save(sampleTodo("abcdefgh1234", "x", todo.StatusUnstarted, todo.PriorityLow, 0))
	if !errors.Is(err, todo.ErrRepository) {
		t.Fatalf("expected repository error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "not json" {
		t.Fatalf("corrupt file was overwritten: %q", data)
	}
}
