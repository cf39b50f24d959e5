package main

import (
	"strings"

	"github.com/amonks/td/internal/ids"
	"github.com/amonks/td/todo"
)

func logHighlighter(prefixLengths map[string]int, highlight func(string, int) string) func(string) string {
	if prefixLengths == nil {
		prefixLengths = map[string]int{}
	}
	return func(id string) string {
		if id == "" {
			return id
		}
		prefixLen, ok := prefixLengths[strings.ToLower(id)]
		if !ok {
			return highlight(id, 0)
		}
		return highlight(id, prefixLen)
	}
}

// todoPrefixLengths computes unique ID prefixes across every todo in repo,
// so highlighted prefixes stay valid input for later commands.
func todoPrefixLengths(repo todo.Repository) map[string]int {
	all, err := repo.FindAll()
	if err != nil {
		return nil
	}
	values := make([]string, 0, len(all))
	for _, t := range all {
		values = append(values, t.ID.String())
	}
	return ids.UniquePrefixLengths(values)
}
