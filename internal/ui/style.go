package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/td/todo"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	priorityStyles = map[todo.Priority]lipgloss.Style{
		todo.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		todo.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		todo.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
	statusStyles = map[todo.Status]lipgloss.Style{
		todo.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		todo.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func render(style lipgloss.Style, value string) string {
	if !ansiEnabled() {
		return value
	}
	return style.Render(value)
}

// Heading styles a section heading.
func Heading(value string) string {
	return render(headingStyle, value)
}

// Muted styles secondary text.
func Muted(value string) string {
	return render(mutedStyle, value)
}

// Overdue styles a due date that has passed.
func Overdue(value string) string {
	return render(overdueStyle, value)
}

// PriorityLabel returns the colored priority name.
func PriorityLabel(priority todo.Priority) string {
	style, ok := priorityStyles[priority]
	if !ok {
		return string(priority)
	}
	return render(style, string(priority))
}

// StatusLabel returns the colored status name.
func StatusLabel(status todo.Status) string {
	style, ok := statusStyles[status]
	if !ok {
		return string(status)
	}
	return render(style, string(status))
}
