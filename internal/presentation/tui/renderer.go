package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ProgramMarkdown renders a flattened program as a markdown table with a
// block-count footer. A limit of zero or less omits the limit.
func ProgramMarkdown(name string, program domain.Program, blocks, limit int) string {
	var sb strings.Builder
	if name != "" {
		fmt.Fprintf(&sb, "# %s\n\n", name)
	}
	if len(program) == 0 {
		sb.WriteString("_empty program_\n")
	} else {
		sb.WriteString("| # | Command | Value |\n|---:|---|---|\n")
		for i, c := range program {
			fmt.Fprintf(&sb, "| %d | %s | %s |\n", i+1, c.Kind, valueText(c))
		}
	}

	sb.WriteString("\n")
	if limit > 0 {
		fmt.Fprintf(&sb, "**Blocks:** %d / %d", blocks, limit)
		if blocks >= limit {
			sb.WriteString(" (limit reached)")
		}
	} else {
		fmt.Fprintf(&sb, "**Blocks:** %d", blocks)
	}
	sb.WriteString("\n")
	return sb.String()
}

func valueText(c domain.Command) string {
	if c.Kind == domain.CommandRepeat {
		return fmt.Sprintf("x%d", c.Times)
	}
	if v := c.Value(); v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
