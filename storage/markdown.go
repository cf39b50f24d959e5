package storage

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	internalstrings "github.com/amonks/td/internal/strings"
	"github.com/amonks/td/todo"
)

// MarkdownStore persists todos as a human-editable Markdown document with
// one section per status.
type MarkdownStore struct {
	fileStore
}

// NewMarkdownStore returns a store backed by the Markdown file at path.
// The file is created on first write.
func NewMarkdownStore(path string) *MarkdownStore {
	return &MarkdownStore{fileStore{path: path, kind: KindMarkdown, codec: markdownCodec{}}}
}

type markdownCodec struct{}

func (markdownCodec) decode(data []byte) ([]todo.Todo, error) {
	return ParseMarkdown(data)
}

func (markdownCodec) encode(todos []todo.Todo) ([]byte, error) {
	return GenerateMarkdown(todos), nil
}

const markdownTitle = "# Todo List"

// markdownSections lists the sections in document order.
var markdownSections = []todo.Status{todo.StatusUnstarted, todo.StatusInProgress, todo.StatusCompleted}

var priorityGlyphs = map[todo.Priority]string{
	todo.PriorityHigh:   "🔴",
	todo.PriorityMedium: "🟡",
	todo.PriorityLow:    "🟢",
}

var (
	headingPattern  = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	itemPattern     = regexp.MustCompile(`^[-*]\s+\[([ xX])\]\s+(.*)$`)
	metadataPattern = regexp.MustCompile(`^<!--\s*(.*?)\s*-->$`)
)

// GenerateMarkdown renders todos grouped by status. Empty sections are
// omitted, and todos keep their relative order within a section.
func GenerateMarkdown(todos []todo.Todo) []byte {
	var buf bytes.Buffer
	buf.WriteString(markdownTitle)
	buf.WriteString("\n\n")

	for _, status := range markdownSections {
		group := todo.FilterByStatus(todos, status)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "## %s\n\n", status.Title())
		for _, t := range group {
			writeMarkdownItem(&buf, t)
		}
	}
	return buf.Bytes()
}

func writeMarkdownItem(buf *bytes.Buffer, t todo.Todo) {
	checkbox := " "
	if t.IsCompleted() {
		checkbox = "x"
	}
	fmt.Fprintf(buf, "- [%s] %s %s\n", checkbox, priorityGlyphs[t.Priority], t.Title)

	fmt.Fprintf(buf, "  <!-- id: %s, priority: %s, created: %s, updated: %s",
		t.ID, t.Priority, FormatTimestamp(t.CreatedAt), FormatTimestamp(t.UpdatedAt))
	if t.DueDate != nil {
		fmt.Fprintf(buf, ", due: %s", FormatTimestamp(*t.DueDate))
	}
	buf.WriteString(" -->\n")

	// Every description line is indented, including blank ones, so trailing
	// whitespace and newlines survive a round trip.
	if description := internalstrings.NormalizeNewlines(t.Description); description != "" {
		for _, line := range strings.Split(description, "\n") {
			buf.WriteString("  ")
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	buf.WriteString("\n")
}

// markdownItem accumulates one todo while parsing.
type markdownItem struct {
	line        int
	status      todo.Status
	title       string
	metadata    map[string]string
	description []string
}

// ParseMarkdown reads a document produced by GenerateMarkdown, tolerating
// hand edits: extra prose is ignored, "Pending" is read as Unstarted, and
// the section a todo sits under decides its status. Items outside a known
// section or without a metadata comment are errors.
func ParseMarkdown(data []byte) ([]todo.Todo, error) {
	lines := strings.Split(internalstrings.NormalizeNewlines(string(data)), "\n")

	var (
		todos   []todo.Todo
		section todo.Status
		current *markdownItem
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		t, err := current.toTodo()
		if err != nil {
			return fmt.Errorf("line %d: %w", current.line, err)
		}
		todos = append(todos, t)
		current = nil
		return nil
	}

	for i, line := range lines {
		lineNum := i + 1

		if match := headingPattern.FindStringSubmatch(line); match != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			section = sectionStatus(match[1])
			continue
		}

		if match := itemPattern.FindStringSubmatch(line); match != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			if section == "" {
				return nil, fmt.Errorf("line %d: todo item outside a status section", lineNum)
			}
			current = &markdownItem{line: lineNum, status: section, title: stripPriorityGlyph(match[2])}
			continue
		}

		if current == nil || !isIndented(line) {
			continue
		}

		content := strings.TrimSpace(line)
		if current.metadata == nil {
			if match := metadataPattern.FindStringSubmatch(content); match != nil {
				current.metadata = parseMetadata(match[1])
				continue
			}
		}
		current.description = append(current.description, unindent(line))
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (item *markdownItem) toTodo() (todo.Todo, error) {
	if item.metadata == nil {
		return todo.Todo{}, fmt.Errorf("todo %q has no metadata comment", item.title)
	}
	field := func(key string) (string, error) {
		value, ok := item.metadata[key]
		if !ok || value == "" {
			return "", fmt.Errorf("todo %q metadata is missing %q", item.title, key)
		}
		return value, nil
	}

	id, err := field("id")
	if err != nil {
		return todo.Todo{}, err
	}
	rawPriority, err := field("priority")
	if err != nil {
		return todo.Todo{}, err
	}
	priority, err := todo.ParsePriority(rawPriority)
	if err != nil {
		return todo.Todo{}, err
	}
	rawCreated, err := field("created")
	if err != nil {
		return todo.Todo{}, err
	}
	createdAt, err := ParseTimestamp(rawCreated)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("created: %w", err)
	}
	rawUpdated, err := field("updated")
	if err != nil {
		return todo.Todo{}, err
	}
	updatedAt, err := ParseTimestamp(rawUpdated)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("updated: %w", err)
	}

	t := todo.Todo{
		ID:          todo.ID(id),
		Title:       item.title,
		Description: strings.Join(item.description, "\n"),
		Status:      item.status,
		Priority:    priority,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if rawDue, ok := item.metadata["due"]; ok && rawDue != "" {
		due, err := ParseTimestamp(rawDue)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("due: %w", err)
		}
		t.DueDate = &due
	}
	if err := todo.ValidateTodo(t); err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// sectionStatus maps a "##" heading to a status, or "" for headings that
// are not status sections.
func sectionStatus(heading string) todo.Status {
	switch internalstrings.NormalizeLowerTrimSpace(heading) {
	case "unstarted", "pending":
		return todo.StatusUnstarted
	case "in progress", "in_progress", "in-progress":
		return todo.StatusInProgress
	case "completed", "done":
		return todo.StatusCompleted
	default:
		return ""
	}
}

// stripPriorityGlyph removes the leading glyph and the single space after
// it, leaving the title exactly as written. Items typed by hand without a
// glyph are trimmed.
func stripPriorityGlyph(text string) string {
	for _, glyph := range priorityGlyphs {
		if rest, ok := strings.CutPrefix(text, glyph); ok {
			return strings.TrimPrefix(rest, " ")
		}
	}
	return strings.TrimSpace(text)
}

// parseMetadata splits "key: value, key: value" pairs. Values may contain
// colons but not commas.
func parseMetadata(body string) map[string]string {
	metadata := make(map[string]string)
	for _, part := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		metadata[internalstrings.NormalizeLowerTrimSpace(key)] = strings.TrimSpace(value)
	}
	return metadata
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

func unindent(line string) string {
	if rest, ok := strings.CutPrefix(line, "  "); ok {
		return rest
	}
	return strings.TrimPrefix(line, "\t")
}
