package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/internal/presentation/tui"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/aretw0/robobunny/pkg/schema"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ProgramPath string
	MapPath     string
	Delay       time.Duration
	Step        bool
	Watch       bool
	Debug       bool
	NoBanner    bool

	// In feeds step mode: one line per step. Nil steps without waiting.
	In  io.Reader
	Out io.Writer
}

func (o *RunOptions) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// Execute handles the 'run' command logic, dispatching to single-run or
// watch mode.
func Execute(ctx context.Context, opts RunOptions) error {
	opts.defaults()
	if opts.Watch && opts.Step {
		return fmt.Errorf("--watch and --step cannot be used together")
	}
	if !opts.NoBanner {
		tui.PrintBanner(opts.Out, robobunny.Version)
	}
	if opts.Watch {
		return RunWatch(ctx, opts)
	}

	logger := createLogger(opts.Debug)
	editor := createEditor(editorConfig{Delay: opts.Delay, Debug: opts.Debug}, logger, opts.Out)
	return runOnce(ctx, opts, editor)
}

// runOnce loads both documents into editor and runs or steps the program.
func runOnce(ctx context.Context, opts RunOptions, editor *robobunny.Editor) error {
	def, err := LoadMapFile(opts.MapPath)
	if err != nil {
		return err
	}
	ws, err := LoadProgramFile(opts.ProgramPath)
	if err != nil {
		return err
	}
	if err := editor.LoadMap(def); err != nil {
		return fmt.Errorf("loading map: %w", err)
	}

	root := schema.Graph(ws)
	if editor.OverLimit(root) {
		printSystemMessage(opts.Out, "Program uses %d of %d blocks.", editor.BlockCount(root), editor.BlockLimit())
	}

	if opts.Step {
		return stepAll(ctx, opts, editor, root)
	}

	ok, err := editor.RunProgram(ctx, root)
	if err != nil {
		return err
	}
	if !ok {
		printSystemMessage(opts.Out, "Run interrupted.")
	}
	return nil
}

func stepAll(ctx context.Context, opts RunOptions, editor *robobunny.Editor, root ports.BlockNode) error {
	var scanner *bufio.Scanner
	if opts.In != nil {
		scanner = bufio.NewScanner(opts.In)
		printSystemMessage(opts.Out, "Press Enter to step, Ctrl+D to stop.")
	}

	for {
		if scanner != nil && !scanner.Scan() {
			return scanner.Err()
		}
		res, err := editor.StepProgram(ctx, root)
		if errors.Is(err, domain.ErrGameOver) {
			return nil
		}
		if err != nil {
			return err
		}
		if res.Done {
			return nil
		}
		if res.Next == 0 {
			// A concurrent reset rewound the cursor.
			printSystemMessage(opts.Out, "Step interrupted.")
			return nil
		}
	}
}
