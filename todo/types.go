// Package todo implements a personal todo tracker.
//
// A Todo is an immutable value: mutators such as Rename, Start and Complete
// return a modified copy with UpdatedAt refreshed. Todos are persisted
// through the Repository interface, which is satisfied by the backends in
// package storage.
//
// The operations mirror the CLI commands:
//   - Add, Update, Remove for the todo lifecycle
//   - Start, Complete, Reopen for status changes
//   - List, Resolve for querying
//   - Report for statistics
package todo

import (
	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/internal/validation"
)

// Status represents the state of a todo.
type Status string

const (
	// StatusUnstarted indicates the todo has not been started.
	StatusUnstarted Status = "unstarted"

	// StatusInProgress indicates the todo is currently being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the todo has been finished.
	StatusCompleted Status = "completed"

	// legacyStatusPending is an older spelling of StatusUnstarted that is
	// still accepted on read and never written.
	legacyStatusPending = "pending"
)

// ValidStatuses returns all valid status values in display order.
func ValidStatuses() []Status {
	return []Status{StatusUnstarted, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Title returns the human-readable name used for section headings.
func (s Status) Title() string {
	switch s {
	case StatusUnstarted:
		return "Unstarted"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ParseStatus converts user or file input into a Status.
// "pending" is accepted as a synonym for unstarted.
func ParseStatus(value string) (Status, error) {
	normalized := internalstrings.NormalizeLowerTrimSpace(value)
	switch normalized {
	case legacyStatusPending:
		return StatusUnstarted, nil
	case "in-progress", "in progress", "inprogress":
		return StatusInProgress, nil
	}
	status := Status(normalized)
	if !status.IsValid() {
		return "", &ValidationError{Field: "status", Reason: validation.UnknownValueReason("status", value, ValidStatuses())}
	}
	return status, nil
}

// StatusRank returns the sort rank for a status.
func StatusRank(s Status) int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusUnstarted:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// Priority represents the importance of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a todo is created without a priority.
const DefaultPriority = PriorityMedium

// ValidPriorities returns all valid priority values, lowest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// ParsePriority converts user or file input into a Priority.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if !priority.IsValid() {
		return "", &ValidationError{Field: "priority", Reason: validation.UnknownValueReason("priority", value, ValidPriorities())}
	}
	return priority, nil
}

// PriorityRank returns the sort rank for a priority, most important first.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// MaxTitleLength is the maximum allowed length for a todo title.
const MaxTitleLength = 500
