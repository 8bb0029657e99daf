package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Option configures a Controller.
type Option func(*Controller)

// WithStepDelay sets the pause after each command. Zero disables pausing.
func WithStepDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.stepDelay = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}
