package todo

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AddInput describes a todo to create.
type AddInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// Add creates a todo and saves it.
func Add(repo Repository, in AddInput) (Todo, error) {
	t, err := New(in.Title, CreateOptions{
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return Todo{}, err
	}

	return repo.Save(t)
}

// Changes configures fields to update on a todo.
// Nil pointers mean "don't update this field".
type Changes struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time

	// ClearDueDate removes the due date. It wins over DueDate.
	ClearDueDate bool
}

// IsEmpty reports whether the changes would modify nothing.
func (c Changes) IsEmpty() bool {
	return c.Title == nil &&
		c.Description == nil &&
		c.Status == nil &&
		c.Priority == nil &&
		c.DueDate == nil &&
		!c.ClearDueDate
}

// Apply returns t with the changes applied.
func (c Changes) Apply(t Todo) (Todo, error) {
	var err error
	if c.Title != nil {
		if t, err = t.Rename(*c.Title); err != nil {
			return Todo{}, err
		}
	}
	if c.Description != nil {
		t = t.Redescribe(*c.Description)
	}
	if c.Status != nil {
		if t, err = t.WithStatus(*c.Status); err != nil {
			return Todo{}, err
		}
	}
	if c.Priority != nil {
		if t, err = t.Reprioritize(*c.Priority); err != nil {
			return Todo{}, err
		}
	}
	switch {
	case c.ClearDueDate:
		t = t.Reschedule(nil)
	case c.DueDate != nil:
		t = t.Reschedule(c.DueDate)
	}
	return t, nil
}

// Update fetches the todo with the given ID, applies changes and stores it.
func Update(repo Repository, id ID, changes Changes) (Todo, error) {
	if strings.TrimSpace(string(id)) == "" {
		return Todo{}, &ValidationError{Field: "id", Reason: "ID cannot be empty"}
	}
	if changes.IsEmpty() {
		return Todo{}, &ValidationError{Field: "changes", Reason: "no changes provided"}
	}

	existing, err := repo.FindByID(id)
	if err != nil {
		return Todo{}, err
	}

	updated, err := changes.Apply(existing)
	if err != nil {
		return Todo{}, err
	}

	return repo.Update(updated)
}

// Start marks the todo in progress.
func Start(repo Repository, id ID) (Todo, error) {
	return transition(repo, id, func(t Todo) (Todo, error) { return t.Start(), nil })
}

// Complete marks the todo completed.
func Complete(repo Repository, id ID) (Todo, error) {
	return transition(repo, id, func(t Todo) (Todo, error) { return t.Complete(), nil })
}

// Reopen returns a completed todo to unstarted.
func Reopen(repo Repository, id ID) (Todo, error) {
	return transition(repo, id, Todo.Reopen)
}

func transition(repo Repository, id ID, fn func(Todo) (Todo, error)) (Todo, error) {
	if strings.TrimSpace(string(id)) == "" {
		return Todo{}, &ValidationError{Field: "id", Reason: "ID cannot be empty"}
	}

	existing, err := repo.FindByID(id)
	if err != nil {
		return Todo{}, err
	}

	updated, err := fn(existing)
	if err != nil {
		return Todo{}, err
	}

	return repo.Update(updated)
}

// Remove deletes todos by ID. It stops at the first failure.
func Remove(repo Repository, ids ...ID) error {
	if len(ids) == 0 {
		return &ValidationError{Field: "ids", Reason: "At least one ID must be provided"}
	}

	for _, id := range ids {
		if err := repo.DeleteByID(id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
	}
	return nil
}

// Resolve expands ID prefixes against the repository's todos.
func Resolve(repo Repository, prefixes ...string) ([]ID, error) {
	todos, err := repo.FindAll()
	if err != nil {
		return nil, err
	}

	index := NewIDIndex(todos)
	resolved := make([]ID, 0, len(prefixes))
	for _, prefix := range prefixes {
		id, err := index.Resolve(prefix)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

// ListFilter narrows the todos returned by List.
// Zero values mean "don't filter".
type ListFilter struct {
	Status   Status
	Priority Priority

	// HideCompleted drops completed todos unless Status asks for them.
	HideCompleted bool

	// OverdueAt keeps only todos overdue at this time.
	OverdueAt time.Time
}

// List returns the matching todos sorted for display.
func List(repo Repository, filter ListFilter) ([]Todo, error) {
	var (
		todos []Todo
		err   error
	)
	switch {
	case filter.Status != "":
		todos, err = repo.FindByStatus(filter.Status)
	case filter.Priority != "":
		todos, err = repo.FindByPriority(filter.Priority)
	default:
		todos, err = repo.FindAll()
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.HideCompleted && filter.Status == "" && t.IsCompleted() {
			continue
		}
		if !filter.OverdueAt.IsZero() && !t.IsOverdue(filter.OverdueAt) {
			continue
		}
		filtered = append(filtered, t)
	}

	SortForDisplay(filtered)
	return filtered, nil
}

// SortForDisplay orders todos by status, then priority, then creation time.
func SortForDisplay(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if ra, rb := StatusRank(a.Status), StatusRank(b.Status); ra != rb {
			return ra < rb
		}
		if ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
