// Package markdown renders todo descriptions for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	internalstrings "github.com/amonks/td/internal/strings"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown text for terminal output, wrapped to width and
// indented by indent spaces. Blank input renders to nil.
func Render(width, indent int, input []byte) []byte {
	value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(string(input)))
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	if indent < 0 {
		indent = 0
	}
	renderWidth := width - indent
	if renderWidth < 1 {
		renderWidth = 1
	}

	rendered := value
	if r := markdownRenderer(renderWidth); r != nil {
		if formatted, err := r.Render(value); err == nil {
			rendered = formatted
		}
	}
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	return []byte(internalstrings.IndentBlock(rendered, indent))
}

// SafeRender is Render that falls back to the raw text if the renderer
// panics.
func SafeRender(width, indent int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(string(input)))
			out = []byte(internalstrings.IndentBlock(value, indent))
		}
	}()
	return Render(width, indent, input)
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	style.Document.Margin = uintPtr(0)
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func uintPtr(value uint) *uint {
	return &value
}
