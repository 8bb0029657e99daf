package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/robobunny/internal/validator"
	"github.com/aretw0/robobunny/pkg/schema"
	"github.com/aretw0/robobunny/pkg/simulation"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	ProgramPaths []string
	MapPath      string
	BlockLimit   int
	Out          io.Writer
}

// Validate checks program files, and optionally a map file, printing every
// finding. It fails when any document is invalid or has error-level findings.
func Validate(opts ValidateOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	failed := 0
	limit := opts.BlockLimit
	if opts.MapPath != "" {
		def, err := LoadMapFile(opts.MapPath)
		if err == nil {
			_, err = simulation.NewFromMap(def)
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "✘ %s\n", opts.MapPath)
			printDocumentError(out, err)
		} else {
			fmt.Fprintf(out, "✔ %s\n", opts.MapPath)
			if limit == 0 {
				limit = def.BlockLimit
			}
		}
	}

	for _, path := range opts.ProgramPaths {
		ws, err := LoadProgramFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "✘ %s\n", path)
			printDocumentError(out, err)
			continue
		}
		findings := validator.Lint(ws, limit)
		bad := false
		for _, f := range findings {
			if f.Severity == validator.SeverityError {
				bad = true
			}
		}
		if bad {
			failed++
			fmt.Fprintf(out, "✘ %s\n", path)
		} else {
			fmt.Fprintf(out, "✔ %s\n", path)
		}
		for _, f := range findings {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(opts.ProgramPaths)+boolInt(opts.MapPath != ""))
	}
	return nil
}

func printDocumentError(out io.Writer, err error) {
	fields := schema.ValidationErrors(err)
	if len(fields) == 0 {
		fmt.Fprintf(out, "  %v\n", err)
		return
	}
	for _, f := range fields {
		fmt.Fprintf(out, "  %v\n", f)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
