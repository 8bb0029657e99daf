package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/robobunny/internal/compiler"
	"github.com/aretw0/robobunny/internal/presentation/graph"
	"github.com/aretw0/robobunny/internal/presentation/tui"
	"github.com/aretw0/robobunny/pkg/schema"
)

// Output formats for Flatten.
const (
	FormatAuto     = ""
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
)

// FlattenOptions configures the flatten command.
type FlattenOptions struct {
	ProgramPath string
	Format      string
	BlockLimit  int
	Debug       bool
	Out         io.Writer
}

// Flatten compiles a program file and prints the resulting command list.
// FormatAuto renders markdown when stdout is a terminal and text otherwise.
func Flatten(opts FlattenOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	ws, err := LoadProgramFile(opts.ProgramPath)
	if err != nil {
		return err
	}

	root := schema.Graph(ws)
	program := compiler.New(compiler.WithLogger(createLogger(opts.Debug))).Flatten(root)

	format := opts.Format
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
			format = FormatMarkdown
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(program)
	case FormatMermaid:
		_, err := io.WriteString(out, graph.GenerateMermaid(ws, nil))
		return err
	case FormatMarkdown:
		rendered, err := tui.NewRenderer()(tui.ProgramMarkdown(ws.Name, program, compiler.CountBlocks(root), opts.BlockLimit))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err
	case FormatText:
		_, err := io.WriteString(out, compiler.Describe(program))
		return err
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}
