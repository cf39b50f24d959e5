package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// HighlightID returns an ID with its unique prefix highlighted when stdout
// is a color terminal.
func HighlightID(id string, prefixLen int) string {
	if id == "" {
		return id
	}

	if prefixLen <= 0 || prefixLen > len(id) {
		return id
	}

	if !ansiEnabled() {
		return id
	}

	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// PrefixLength looks up an ID in a map from ids.UniquePrefixLengths.
func PrefixLength(lengths map[string]int, id string) int {
	if id == "" || lengths == nil {
		return 0
	}
	return lengths[strings.ToLower(id)]
}

func ansiEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when stdout is
// not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
