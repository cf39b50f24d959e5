package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/amonks/td/todo"
)

//go:embed todos.schema.json
var todosSchemaJSON []byte

const todosSchemaURL = "https://github.com/amonks/td/storage/todos.schema.json"

var compileTodosSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(todosSchemaURL, bytes.NewReader(todosSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add todos schema: %w", err)
	}
	return compiler.Compile(todosSchemaURL)
})

// JSONStore persists todos as a pretty-printed JSON array.
type JSONStore struct {
	fileStore
}

// NewJSONStore returns a store backed by the JSON file at path. The file
// is created on first write.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{fileStore{path: path, kind: KindJSON, codec: jsonCodec{}}}
}

// jsonRecord is the on-disk shape of one todo.
type jsonRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	DueDate     *string `json:"dueDate,omitempty"`
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte) ([]todo.Todo, error) {
	return DecodeJSON(data)
}

func (jsonCodec) encode(todos []todo.Todo) ([]byte, error) {
	return EncodeJSON(todos)
}

// DecodeJSON parses and validates a JSON data file.
func DecodeJSON(data []byte) ([]todo.Todo, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compileTodosSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %s", describeSchemaError(err))
	}

	var records []jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	todos := make([]todo.Todo, 0, len(records))
	for i, record := range records {
		t, err := record.toTodo()
		if err != nil {
			return nil, fmt.Errorf("todo %d: %w", i, err)
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// EncodeJSON renders todos as a two-space indented JSON array with a
// trailing newline.
func EncodeJSON(todos []todo.Todo) ([]byte, error) {
	records := make([]jsonRecord, 0, len(todos))
	for _, t := range todos {
		records = append(records, newJSONRecord(t))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode todos: %w", err)
	}
	return append(data, '\n'), nil
}

func newJSONRecord(t todo.Todo) jsonRecord {
	record := jsonRecord{
		ID:        t.ID.String(),
		Title:     t.Title,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: FormatTimestamp(t.CreatedAt),
		UpdatedAt: FormatTimestamp(t.UpdatedAt),
	}
	if t.Description != "" {
		description := t.Description
		record.Description = &description
	}
	if t.DueDate != nil {
		due := FormatTimestamp(*t.DueDate)
		record.DueDate = &due
	}
	return record
}

func (r jsonRecord) toTodo() (todo.Todo, error) {
	status, err := todo.ParseStatus(r.Status)
	if err != nil {
		return todo.Todo{}, err
	}
	priority, err := todo.ParsePriority(r.Priority)
	if err != nil {
		return todo.Todo{}, err
	}
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("updatedAt: %w", err)
	}

	t := todo.Todo{
		ID:        todo.ID(r.ID),
		Title:     r.Title,
		Status:    status,
		Priority:  priority,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.DueDate != nil {
		due, err := ParseTimestamp(*r.DueDate)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}
	if err := todo.ValidateTodo(t); err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// describeSchemaError flattens a validation error to its leaf causes, e.g.
// "/0/status: value must be one of ...".
func describeSchemaError(err error) string {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			leaves = append(leaves, fmt.Sprintf("%s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(leaves, "; ")
}
