package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/amonks/td/todo"
)

func TestFormatTodoTable(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	overdue := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	items := []todo.Todo{
		{
			ID:        "abc12345wxyz",
			Title:     "Ship release",
			Status:    todo.StatusInProgress,
			Priority:  todo.PriorityHigh,
			DueDate:   &overdue,
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now.Add(-time.Hour),
		},
		{
			ID:        "def67890wxyz",
			Title:     "Write\nnotes",
			Status:    todo.StatusUnstarted,
			Priority:  todo.PriorityLow,
			CreatedAt: now.Add(-3 * 24 * time.Hour),
			UpdatedAt: now.Add(-3 * 24 * time.Hour),
		},
	}

	highlight := func(id string, prefix int) string {
		return fmt.Sprintf("%s[%d]", id, prefix)
	}
	got := formatTodoTable(items, map[string]int{"abc12345wxyz": 1, "def67890wxyz": 1}, highlight, now)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got:\n%s", got)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "ID PRI STATUS DUE AGE TITLE" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	for _, want := range []string{"abc12345wxyz[1]", "high", "in_progress", "2025-01-08 (2d overdue)", "2h ago", "Ship release"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("expected first row to contain %q, got %q", want, lines[1])
		}
	}
	for _, want := range []string{"def67890wxyz[1]", "low", "unstarted", " - ", "3d ago", "Write notes"} {
		if !strings.Contains(lines[2], want) {
			t.Fatalf("expected second row to contain %q, got %q", want, lines[2])
		}
	}
}

func TestFormatTodoTableTruncatesLongTitles(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	items := []todo.Todo{{
		ID:        "abc12345wxyz",
		Title:     strings.Repeat("x", 80),
		Status:    todo.StatusUnstarted,
		Priority:  todo.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	got := formatTodoTable(items, nil, func(id string, _ int) string { return id }, now)
	if strings.Contains(got, strings.Repeat("x", 51)) {
		t.Fatalf("expected title to be truncated, got:\n%s", got)
	}
	if !strings.Contains(got, "...") {
		t.Fatalf("expected ellipsis, got:\n%s", got)
	}
}
