package robobunny

import (
	"log/slog"
	"time"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger for the editor and its runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithStepDelay sets the pause after each executed command.
func WithStepDelay(d time.Duration) Option {
	return func(e *Editor) {
		e.stepDelay = d
	}
}

// WithSettleDelay sets the pause between the reset that precedes a full run
// and the first command (default 100ms), giving hosts time to redraw.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Editor) {
		e.settleDelay = d
	}
}

// WithBlockLimit sets the block budget reported by OverLimit (default 20).
func WithBlockLimit(n int) Option {
	return func(e *Editor) {
		e.blockLimit = n
	}
}

// WithSimulation replaces the default grid simulation.
func WithSimulation(sim ports.Simulation) Option {
	return func(e *Editor) {
		e.sim = sim
	}
}

// WithName labels the editor in logs.
func WithName(name string) Option {
	return func(e *Editor) {
		e.Name = name
	}
}
