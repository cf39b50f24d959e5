package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/amonks/td/internal/markdown"
	"github.com/amonks/td/internal/ui"
	"github.com/amonks/td/todo"
)

const (
	todoDetailLineWidth = 80
	todoDetailIndent    = 2
)

// formatTodoDetail renders a todo for `td show`: the title wrapped to
// width, a block of labelled fields, then the description as markdown.
func formatTodoDetail(item todo.Todo, highlight func(string) string, now time.Time, width int) string {
	var b strings.Builder

	b.WriteString(ui.Heading(wordwrap.String(item.Title, width)))
	b.WriteString("\n\n")

	due := ui.FormatDue(item.DueDate, now)
	if item.IsOverdue(now) {
		due = ui.Overdue(due)
	}
	fields := [][2]string{
		{"ID", highlight(item.ID.String())},
		{"Status", ui.StatusLabel(item.Status)},
		{"Priority", ui.PriorityLabel(item.Priority)},
		{"Due", due},
		{"Created", fmt.Sprintf("%s (%s)", formatTimestamp(item.CreatedAt), ui.FormatTimeAgo(item.CreatedAt, now))},
		{"Updated", fmt.Sprintf("%s (%s)", formatTimestamp(item.UpdatedAt), ui.FormatTimeAgo(item.UpdatedAt, now))},
	}
	for _, field := range fields {
		fmt.Fprintf(&b, "%-9s %s\n", field[0]+":", field[1])
	}

	if rendered := markdown.SafeRender(width, todoDetailIndent, []byte(item.Description)); len(rendered) > 0 {
		b.WriteString("\n")
		b.Write(rendered)
		b.WriteString("\n")
	}
	return b.String()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
