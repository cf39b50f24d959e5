package todo

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	now := mustTime(t, "2024-03-02T09:12:00Z")
	setClock(t, now)

	due := now.Add(48 * time.Hour)
	created, err := New("  Write report  ", CreateOptions{
		Description: "quarterly numbers",
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if created.Title != "Write report" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.Status != StatusUnstarted {
		t.Errorf("expected unstarted, got %q", created.Status)
	}
	if created.Priority != PriorityMedium {
		t.Errorf("expected default medium priority, got %q", created.Priority)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Errorf("expected timestamps %v, got created=%v updated=%v", now, created.CreatedAt, created.UpdatedAt)
	}
	if created.DueDate == nil || !created.DueDate.Equal(due) {
		t.Errorf("expected due date %v, got %v", due, created.DueDate)
	}
	if created.DueDate == &due {
		t.Error("expected due date to be copied, not aliased")
	}
	if _, err := ParseID(string(created.ID)); err != nil {
		t.Errorf("generated invalid ID: %v", err)
	}
}

func TestNew_RejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := New(title, CreateOptions{})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("New(%q) error = %v, want ValidationError", title, err)
		}
		if validationErr.Field != "title" {
			t.Errorf("New(%q) field = %q, want title", title, validationErr.Field)
		}
	}
}

func TestNew_RejectsLongTitle(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxTitleLength+1), CreateOptions{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_RejectsUnknownPriority(t *testing.T) {
	_, err := New("title", CreateOptions{Priority: "urgent"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMutatorsReturnNewValues(t *testing.T) {
	created := mustTime(t, "2024-01-01T00:00:00Z")
	later := mustTime(t, "2024-01-02T00:00:00Z")
	original := testTodo("abc123def456", "Original", StatusUnstarted, PriorityLow, created)
	setClock(t, later)

	renamed, err := original.Rename("  Renamed ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Title != "Renamed" || original.Title != "Original" {
		t.Errorf("rename mutated in place or did not apply: original=%q renamed=%q", original.Title, renamed.Title)
	}

	due := later.Add(time.Hour)
	cases := []struct {
		name  string
		got   Todo
		check func(Todo) bool
	}{
		{"redescribe", original.Redescribe("details"), func(t Todo) bool { return t.Description == "details" }},
		{"reschedule", original.Reschedule(&due), func(t Todo) bool { return t.DueDate != nil && t.DueDate.Equal(due) }},
		{"start", original.Start(), func(t Todo) bool { return t.Status == StatusInProgress }},
		{"complete", original.Complete(), func(t Todo) bool { return t.Status == StatusCompleted }},
		{"rename", renamed, func(t Todo) bool { return t.Title == "Renamed" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.got) {
				t.Errorf("%s did not apply: %+v", tc.name, tc.got)
			}
			if !tc.got.UpdatedAt.Equal(later) {
				t.Errorf("%s did not refresh UpdatedAt: %v", tc.name, tc.got.UpdatedAt)
			}
			if !tc.got.CreatedAt.Equal(created) {
				t.Errorf("%s changed CreatedAt: %v", tc.name, tc.got.CreatedAt)
			}
			if tc.got.ID != original.ID {
				t.Errorf("%s changed ID", tc.name)
			}
		})
	}

	if original.Status != StatusUnstarted || !original.UpdatedAt.Equal(created) || original.DueDate != nil {
		t.Errorf("original was mutated: %+v", original)
	}
}

func TestReprioritize(t *testing.T) {
	original := testTodo("abc123def456", "Title", StatusUnstarted, PriorityLow, mustTime(t, "2024-01-01T00:00:00Z"))

	updated, err := original.Reprioritize(PriorityHigh)
	if err != nil {
		t.Fatalf("reprioritize: %v", err)
	}
	if updated.Priority != PriorityHigh {
		t.Errorf("expected high, got %q", updated.Priority)
	}

	if _, err := original.Reprioritize("urgent"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestWithStatus(t *testing.T) {
	original := testTodo("abc123def456", "Title", StatusCompleted, PriorityLow, mustTime(t, "2024-01-01T00:00:00Z"))

	updated, err := original.WithStatus(StatusInProgress)
	if err != nil {
		t.Fatalf("with status: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("expected in_progress, got %q", updated.Status)
	}

	if _, err := original.WithStatus("pending"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for non-canonical status, got %v", err)
	}
}

func TestReopen(t *testing.T) {
	created := mustTime(t, "2024-01-01T00:00:00Z")

	completed := testTodo("abc123def456", "Title", StatusCompleted, PriorityLow, created)
	reopened, err := completed.Reopen()
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != StatusUnstarted {
		t.Errorf("expected unstarted, got %q", reopened.Status)
	}

	open := testTodo("abc123def456", "Title", StatusInProgress, PriorityLow, created)
	_, err = open.Reopen()
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if stateErr.Current != StatusInProgress {
		t.Errorf("expected current in_progress, got %q", stateErr.Current)
	}
}

func TestUpdatedAtNeverPrecedesCreatedAt(t *testing.T) {
	created := mustTime(t, "2024-06-01T00:00:00Z")
	setClock(t, created.Add(-time.Hour))

	original := testTodo("abc123def456", "Title", StatusUnstarted, PriorityLow, created)
	started := original.Start()
	if started.UpdatedAt.Before(started.CreatedAt) {
		t.Fatalf("UpdatedAt %v precedes CreatedAt %v", started.UpdatedAt, started.CreatedAt)
	}
}

func TestNowIsMillisecondUTC(t *testing.T) {
	zone := time.FixedZone("test", 3600)
	setClock(t, time.Date(2024, 1, 1, 12, 0, 0, 123456789, zone))

	now := Now()
	if now.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", now.Location())
	}
	if now.Nanosecond() != 123000000 {
		t.Errorf("expected millisecond truncation, got %d ns", now.Nanosecond())
	}
}

func TestIsOverdue(t *testing.T) {
	now := mustTime(t, "2024-01-10T00:00:00Z")
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	base := testTodo("abc123def456", "Title", StatusUnstarted, PriorityLow, mustTime(t, "2024-01-01T00:00:00Z"))

	withDue := func(status Status, due *time.Time) Todo {
		t := base
		t.Status = status
		t.DueDate = due
		return t
	}

	tests := []struct {
		name string
		todo Todo
		want bool
	}{
		{"no due date", withDue(StatusUnstarted, nil), false},
		{"past due", withDue(StatusUnstarted, &past), true},
		{"past due in progress", withDue(StatusInProgress, &past), true},
		{"past due completed", withDue(StatusCompleted, &past), false},
		{"future due", withDue(StatusUnstarted, &future), false},
		{"due exactly now", withDue(StatusUnstarted, &now), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.todo.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	created := mustTime(t, "2024-01-01T00:00:00Z")
	due := created.Add(time.Hour)
	sameDue := due
	a := testTodo("abc123def456", "Title", StatusUnstarted, PriorityLow, created)
	a.DueDate = &due
	b := a
	b.DueDate = &sameDue

	if !a.Equal(b) {
		t.Error("expected equal todos with distinct due pointers")
	}

	c := a
	c.DueDate = nil
	if a.Equal(c) {
		t.Error("expected todos with and without due date to differ")
	}

	d := a
	d.Title = "Other"
	if a.Equal(d) {
		t.Error("expected different titles to differ")
	}
}
