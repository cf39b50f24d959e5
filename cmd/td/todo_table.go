package main

import (
	"time"

	"github.com/amonks/td/internal/ui"
	"github.com/amonks/td/todo"
)

var todoTableHeaders = []string{"ID", "PRI", "STATUS", "DUE", "AGE", "TITLE"}

func formatTodoTable(items []todo.Todo, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder(todoTableHeaders, len(items))
	for _, item := range items {
		id := item.ID.String()
		due := ui.FormatDue(item.DueDate, now)
		if item.IsOverdue(now) {
			due = ui.Overdue(due)
		}
		builder.AddRow([]string{
			highlight(id, ui.PrefixLength(prefixLengths, id)),
			ui.PriorityLabel(item.Priority),
			ui.StatusLabel(item.Status),
			due,
			ui.FormatTimeAgo(item.CreatedAt, now),
			ui.TruncateTableCell(item.Title),
		})
	}
	return builder.String()
}
