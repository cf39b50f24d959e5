package todo

import (
	"strings"
	"time"

	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/internal/validation"
)

// Todo represents a single task. Values are never modified in place; every
// mutator returns a new Todo.
type Todo struct {
	// ID is a unique identifier (12-char lowercase alphanumeric when generated).
	ID ID `json:"id"`

	// Title is the short summary of the todo (max 500 chars).
	Title string `json:"title"`

	// Description provides additional context about the todo.
	Description string `json:"description,omitempty"`

	// Status is the current state of the todo.
	Status Status `json:"status"`

	// Priority is the importance level.
	Priority Priority `json:"priority"`

	// CreatedAt is when the todo was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the todo was last modified.
	UpdatedAt time.Time `json:"updatedAt"`

	// DueDate is when the todo should be finished (nil if unscheduled).
	DueDate *time.Time `json:"dueDate,omitempty"`
}

var clock = time.Now

// Now returns the current time in UTC at millisecond precision, the
// resolution every backend persists.
func Now() time.Time {
	return Millis(clock())
}

// Millis normalizes t to UTC at millisecond precision.
func Millis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FromUnixMilli converts epoch milliseconds to a normalized time.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// CreateOptions configures a new todo.
type CreateOptions struct {
	// Description provides additional context.
	Description string

	// Priority is the importance level. Defaults to DefaultPriority when empty.
	Priority Priority

	// DueDate is optional.
	DueDate *time.Time
}

// New creates an unstarted todo with a fresh ID.
func New(title string, opts CreateOptions) (Todo, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return Todo{}, err
	}

	priority := opts.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.IsValid() {
		return Todo{}, &ValidationError{Field: "priority", Reason: validation.UnknownValueReason("priority", string(priority), ValidPriorities())}
	}

	now := Now()
	return Todo{
		ID:          NewID(),
		Title:       title,
		Description: internalstrings.NormalizeNewlines(opts.Description),
		Status:      StatusUnstarted,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     copyTime(opts.DueDate),
	}, nil
}

// touched returns t with UpdatedAt refreshed. The timestamp never moves
// backwards, so UpdatedAt >= CreatedAt holds even if the clock does.
func (t Todo) touched() Todo {
	now := Now()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
	t.DueDate = copyTime(t.DueDate)
	return t
}

// Rename returns a copy with a new title.
func (t Todo) Rename(title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return t, err
	}
	t = t.touched()
	t.Title = title
	return t, nil
}

// Redescribe returns a copy with a new description.
func (t Todo) Redescribe(description string) Todo {
	t = t.touched()
	t.Description = internalstrings.NormalizeNewlines(description)
	return t
}

// Reprioritize returns a copy with a new priority.
func (t Todo) Reprioritize(priority Priority) (Todo, error) {
	if !priority.IsValid() {
		return t, &ValidationError{Field: "priority", Reason: validation.UnknownValueReason("priority", string(priority), ValidPriorities())}
	}
	t = t.touched()
	t.Priority = priority
	return t, nil
}

// Reschedule returns a copy with a new due date. A nil due date clears it.
func (t Todo) Reschedule(due *time.Time) Todo {
	t = t.touched()
	t.DueDate = copyTime(due)
	return t
}

// WithStatus returns a copy with a new status. Any transition between the
// three statuses is allowed.
func (t Todo) WithStatus(status Status) (Todo, error) {
	if !status.IsValid() {
		return t, &ValidationError{Field: "status", Reason: validation.UnknownValueReason("status", string(status), ValidStatuses())}
	}
	t = t.touched()
	t.Status = status
	return t, nil
}

// Start returns a copy marked in progress.
func (t Todo) Start() Todo {
	t = t.touched()
	t.Status = StatusInProgress
	return t
}

// Complete returns a copy marked completed.
func (t Todo) Complete() Todo {
	t = t.touched()
	t.Status = StatusCompleted
	return t
}

// Reopen returns a completed todo to unstarted.
func (t Todo) Reopen() (Todo, error) {
	if t.Status != StatusCompleted {
		return t, &StateError{Current: t.Status, Attempted: "reopen"}
	}
	t = t.touched()
	t.Status = StatusUnstarted
	return t, nil
}

// IsCompleted reports whether the todo is completed.
func (t Todo) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsUnstarted reports whether the todo has not been started.
func (t Todo) IsUnstarted() bool {
	return t.Status == StatusUnstarted
}

// IsInProgress reports whether the todo is being worked on.
func (t Todo) IsInProgress() bool {
	return t.Status == StatusInProgress
}

// IsOverdue reports whether the todo has a due date before now and is not completed.
func (t Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.IsCompleted() {
		return false
	}
	return t.DueDate.Before(now)
}

// Equal reports whether two todos hold the same field values.
func (t Todo) Equal(other Todo) bool {
	if t.ID != other.ID ||
		t.Title != other.Title ||
		t.Description != other.Description ||
		t.Status != other.Status ||
		t.Priority != other.Priority ||
		!t.CreatedAt.Equal(other.CreatedAt) ||
		!t.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	if t.DueDate == nil || other.DueDate == nil {
		return t.DueDate == nil && other.DueDate == nil
	}
	return t.DueDate.Equal(*other.DueDate)
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
