package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/amonks/td/internal/ui"
	"github.com/amonks/td/todo"
)

// TodoData represents the data used to render the TOML template.
type TodoData struct {
	// IsUpdate is true when editing an existing todo.
	IsUpdate bool
	// ID is the todo ID (only for updates).
	ID string
	// Title is the todo title.
	Title string
	// Priority is low, medium or high.
	Priority string
	// Status is the todo status (only for updates).
	Status string
	// Due is the due date as YYYY-MM-DD, or empty.
	Due string
	// Description is the todo description.
	Description string
}

// DefaultCreateData returns TodoData with default values for creating a new todo.
func DefaultCreateData() TodoData {
	return TodoData{Priority: string(todo.DefaultPriority)}
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo) TodoData {
	data := TodoData{
		IsUpdate:    true,
		ID:          t.ID.String(),
		Title:       t.Title,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Description: t.Description,
	}
	if t.DueDate != nil {
		data.Due = t.DueDate.UTC().Format(ui.DateLayout)
	}
	return data
}

var todoTemplate = template.Must(template.New("todo").Funcs(template.FuncMap{
	"list": func(values []string) string { return strings.Join(values, ", ") },
}).Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # {{ list .Priorities }}
due = {{ printf "%q" .Due }} # YYYY-MM-DD, empty for none
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # {{ list .Statuses }}
{{- end }}
---
{{ .Description }}
`))

type templateData struct {
	TodoData
	Priorities []string
	Statuses   []string
}

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	view := templateData{TodoData: data}
	for _, p := range todo.ValidPriorities() {
		view.Priorities = append(view.Priorities, string(p))
	}
	for _, s := range todo.ValidStatuses() {
		view.Statuses = append(view.Statuses, string(s))
	}

	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo is the validated result of an editing session.
type ParsedTodo struct {
	Title       string
	Priority    todo.Priority
	Status      *todo.Status
	DueDate     *time.Time
	Description string
}

type rawTodo struct {
	Title    string  `toml:"title"`
	Priority string  `toml:"priority"`
	Due      string  `toml:"due"`
	Status   *string `toml:"status"`
}

// ParseTodoTOML parses the TOML content from the editor.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	frontmatter, body := splitFrontmatter(content)

	var raw rawTodo
	if _, err := toml.Decode(frontmatter, &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	parsed := ParsedTodo{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(body),
	}
	if err := todo.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}

	priority := todo.DefaultPriority
	if strings.TrimSpace(raw.Priority) != "" {
		var err error
		if priority, err = todo.ParsePriority(raw.Priority); err != nil {
			return nil, err
		}
	}
	parsed.Priority = priority

	if raw.Status != nil {
		status, err := todo.ParseStatus(*raw.Status)
		if err != nil {
			return nil, err
		}
		parsed.Status = &status
	}

	if due := strings.TrimSpace(raw.Due); due != "" {
		date, err := ui.ParseDate(due)
		if err != nil {
			return nil, &todo.ValidationError{Field: "due", Reason: err.Error()}
		}
		parsed.DueDate = &date
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditTodo opens the editor for a todo and returns the parsed result.
// For create: pass nil for existing.
// For update: pass the existing todo.
func EditTodo(existing *todo.Todo) (*ParsedTodo, error) {
	data := DefaultCreateData()
	if existing != nil {
		data = DataFromTodo(*existing)
	}
	return EditTodoWithData(data)
}

// EditTodoWithData opens the editor with pre-populated data and returns the parsed result.
func EditTodoWithData(data TodoData) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "td-todo-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited))
}

// ToAddInput converts a ParsedTodo to todo.AddInput.
func (p *ParsedTodo) ToAddInput() todo.AddInput {
	return todo.AddInput{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
	}
}

// ToChanges converts a ParsedTodo to todo.Changes. Every field is set, so
// clearing the due date in the editor removes it.
func (p *ParsedTodo) ToChanges() todo.Changes {
	title := p.Title
	description := p.Description
	priority := p.Priority
	changes := todo.Changes{
		Title:        &title,
		Description:  &description,
		Priority:     &priority,
		Status:       p.Status,
		DueDate:      p.DueDate,
		ClearDueDate: p.DueDate == nil,
	}
	return changes
}
