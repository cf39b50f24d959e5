package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/td/internal/validation"
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "Title cannot be empty"}
	}
	if strings.ContainsAny(title, "\r\n") {
		return &ValidationError{Field: "title", Reason: "title must be a single line"}
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("title exceeds maximum length: %d > %d", n, MaxTitleLength)}
	}
	return nil
}

// ValidateTodo checks a todo read from an external source.
func ValidateTodo(t Todo) error {
	if _, err := ParseID(string(t.ID)); err != nil {
		return err
	}

	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if !t.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: validation.UnknownValueReason("status", string(t.Status), ValidStatuses())}
	}

	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Reason: validation.UnknownValueReason("priority", string(t.Priority), ValidPriorities())}
	}

	if t.CreatedAt.IsZero() {
		return &ValidationError{Field: "createdAt", Reason: "timestamp is required"}
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updatedAt", Reason: "updatedAt precedes createdAt"}
	}

	return nil
}
