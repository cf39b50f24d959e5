package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/td/storage"
	"github.com/amonks/td/todo"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// writeTodosJSON prints todos in the JSON backend's file format.
func writeTodosJSON(w io.Writer, todos []todo.Todo) error {
	data, err := storage.EncodeJSON(todos)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	return strings.TrimRight(string(input), "\r\n"), nil
}
