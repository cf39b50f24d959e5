package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amonks/td/todo"
)

func TestRenderTodoTOML_Create(t *testing.T) {
	content, err := RenderTodoTOML(DefaultCreateData())
	if err != nil {
		t.Fatalf("RenderTodoTOML failed: %v", err)
	}

	if !strings.Contains(content, `title = ""`) {
		t.Error("expected empty title")
	}
	if !strings.Contains(content, `priority = "medium" # low, medium, high`) {
		t.Errorf("expected default priority medium, got:\n%s", content)
	}
	if !strings.Contains(content, `due = ""`) {
		t.Error("expected empty due date")
	}
	if !strings.Contains(content, "---") {
		t.Error("expected frontmatter separator")
	}
	if strings.Contains(content, "status = ") || strings.Contains(content, "# editing") {
		t.Error("status should not be present for create")
	}
}

func TestRenderTodoTOML_Update(t *testing.T) {
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	existing := todo.Todo{
		ID:          "abc12345xyz0",
		Title:       `Say "hi"`,
		Priority:    todo.PriorityHigh,
		Status:      todo.StatusInProgress,
		Description: "A test description",
		DueDate:     &due,
	}

	content, err := RenderTodoTOML(DataFromTodo(existing))
	if err != nil {
		t.Fatalf("RenderTodoTOML failed: %v", err)
	}

	for _, want := range []string{
		"# editing abc12345xyz0",
		`title = "Say \"hi\""`,
		`priority = "high"`,
		`due = "2025-04-01"`,
		`status = "in_progress" # unstarted, in_progress, completed`,
		"---\nA test description\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in:\n%s", want, content)
		}
	}
}

func TestRenderThenParseRoundTrip(t *testing.T) {
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	existing := todo.Todo{
		ID:          "abc12345xyz0",
		Title:       "Plan trip",
		Priority:    todo.PriorityLow,
		Status:      todo.StatusCompleted,
		Description: "Book flights\n\n- hotel\n- car",
		DueDate:     &due,
	}

	content, err := RenderTodoTOML(DataFromTodo(existing))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	parsed, err := ParseTodoTOML(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Title != existing.Title || parsed.Priority != existing.Priority || parsed.Description != existing.Description {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	if parsed.Status == nil || *parsed.Status != todo.StatusCompleted {
		t.Fatalf("unexpected status: %v", parsed.Status)
	}
	if parsed.DueDate == nil || !parsed.DueDate.Equal(due) {
		t.Fatalf("unexpected due: %v", parsed.DueDate)
	}
}

func TestParseTodoTOML_Defaults(t *testing.T) {
	parsed, err := ParseTodoTOML("title = \"  Water plants \"\n---\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Title != "Water plants" || parsed.Priority != todo.PriorityMedium {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	if parsed.Status != nil || parsed.DueDate != nil || parsed.Description != "" {
		t.Fatalf("unexpected optional fields: %+v", parsed)
	}

	input := parsed.ToAddInput()
	if input.Title != "Water plants" || input.Priority != todo.PriorityMedium {
		t.Fatalf("unexpected add input: %+v", input)
	}
	changes := parsed.ToChanges()
	if !changes.ClearDueDate || changes.Status != nil || *changes.Title != "Water plants" {
		t.Fatalf("unexpected changes: %+v", changes)
	}
}

func TestParseTodoTOML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "empty title", content: "title = \"\"\n---\n", field: "title"},
		{name: "bad priority", content: "title = \"x\"\npriority = \"urgent\"\n---\n", field: "priority"},
		{name: "bad status", content: "title = \"x\"\nstatus = \"blocked\"\n---\n", field: "status"},
		{name: "bad due", content: "title = \"x\"\ndue = \"soon\"\n---\n", field: "due"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTodoTOML(tt.content)
			var validationErr *todo.ValidationError
			if !errors.As(err, &validationErr) || validationErr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}

	if _, err := ParseTodoTOML("title = \n---\n"); err == nil || !strings.Contains(err.Error(), "parse TOML") {
		t.Fatalf("expected TOML error, got %v", err)
	}
}

func TestEditTodoWithData_UsesEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	body := "#!/bin/sh\nprintf 'title = \"From editor\"\\npriority = \"high\"\\n---\\nnotes\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write editor: %v", err)
	}
	t.Setenv("EDITOR", script)

	parsed, err := EditTodo(nil)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if parsed.Title != "From editor" || parsed.Priority != todo.PriorityHigh || parsed.Description != "notes" {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}

func TestEditTodoWithData_EditorFailure(t *testing.T) {
	t.Setenv("EDITOR", "false")

	if _, err := EditTodo(nil); err == nil || !strings.Contains(err.Error(), "editor exited with status 1") {
		t.Fatalf("expected editor failure, got %v", err)
	}
}
