package main

import (
	"fmt"

	"github.com/amonks/td/todo"
)

func todoEmptyListMessage(total int, filter todo.ListFilter, hasCompleted bool) string {
	if total == 0 {
		return "No todos found."
	}

	if filter.Status != "" {
		return fmt.Sprintf("No todos found with status %s.", filter.Status)
	}

	if filter.HideCompleted && hasCompleted && filter.Priority == "" && filter.OverdueAt.IsZero() {
		return "No todos found. Use --all to include completed todos."
	}

	return "No todos found."
}
