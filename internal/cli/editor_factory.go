package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/internal/presentation/tui"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/observability"
)

// editorConfig is the subset of CLI flags that shape an Editor.
type editorConfig struct {
	Delay time.Duration
	Debug bool
	Quiet bool
}

// createEditor builds an Editor whose hooks print progress to out.
func createEditor(cfg editorConfig, logger *slog.Logger, out io.Writer) *robobunny.Editor {
	opts := []robobunny.Option{
		robobunny.WithLogger(logger),
		robobunny.WithStepDelay(cfg.Delay),
		robobunny.WithSettleDelay(0),
	}

	hooks := domain.LifecycleHooks{}
	if !cfg.Quiet {
		hooks = printHooks(out)
	}
	if cfg.Debug {
		hooks = observability.Combine(hooks, observability.LogHooks(logger))
	}
	opts = append(opts, robobunny.WithLifecycleHooks(hooks))

	return robobunny.New(opts...)
}

// printHooks writes one line per applied command and every status change.
func printHooks(out io.Writer) domain.LifecycleHooks {
	styler := tui.NewStyler(out)
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			line := fmt.Sprintf("%3d. %-10s", e.Index+1, e.Command.String())
			if len(e.Snapshot.Agents) > 0 {
				a := e.Snapshot.Agents[0]
				line += fmt.Sprintf(" -> (%d,%d) %s", a.X, a.Y, a.Direction)
			}
			fmt.Fprintln(out, styler.Highlight(line))
		},
		OnStatus: func(_ context.Context, e *domain.StatusEvent) {
			fmt.Fprintln(out, styler.Status(e.Status))
		},
	}
}
