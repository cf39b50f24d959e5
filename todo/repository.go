package todo

import (
	"fmt"

	"github.com/amonks/td/internal/ids"
)

// Repository is the storage contract every backend satisfies.
//
// Storage failures are reported as *RepositoryError. After a mutating call
// returns, a fresh Repository opened on the same storage observes the change.
type Repository interface {
	// FindByID returns the todo with the given ID, or *NotFoundError.
	FindByID(id ID) (Todo, error)

	// FindAll returns every todo. The order is backend-defined but stable
	// within one call.
	FindAll() ([]Todo, error)

	// Save inserts a todo, failing with *AlreadyExistsError if the ID is taken.
	Save(t Todo) (Todo, error)

	// Update replaces the todo with the same ID, inserting it when absent.
	Update(t Todo) (Todo, error)

	// DeleteByID removes a todo, or fails with *NotFoundError.
	DeleteByID(id ID) error

	// FindByStatus returns the todos with the given status.
	FindByStatus(status Status) ([]Todo, error)

	// FindByPriority returns the todos with the given priority.
	FindByPriority(priority Priority) ([]Todo, error)

	// Count returns the number of todos.
	Count() (int, error)
}

// FilterByStatus returns the todos with the given status, preserving order.
func FilterByStatus(todos []Todo, status Status) []Todo {
	filtered := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// FilterByPriority returns the todos with the given priority, preserving order.
func FilterByPriority(todos []Todo, priority Priority) []Todo {
	filtered := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.Priority == priority {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// IDIndex indexes todo IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of todos.
func NewIDIndex(todos []Todo) IDIndex {
	todoIDs := make([]string, 0, len(todos))
	for _, todo := range todos {
		todoIDs = append(todoIDs, string(todo.ID))
	}
	return IDIndex{ids: todoIDs}
}

// Resolve returns the full todo ID for a prefix.
func (index IDIndex) Resolve(prefix string) (ID, error) {
	if prefix == "" {
		return "", &ValidationError{Field: "id", Reason: "ID cannot be empty"}
	}

	match, found, ambiguous := ids.MatchPrefix(index.ids, prefix)
	if !found {
		return "", &NotFoundError{ID: ID(prefix)}
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}

	return ID(match), nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengths(index.ids)
}
