package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

// DefaultStepDelay is the pause after each command, leaving hosts time to
// animate the move.
const DefaultStepDelay = 300 * time.Millisecond

// Controller applies Programs to a Simulation.
//
// Every invocation of ExecuteProgram or ExecuteStep holds a RunToken. The
// token is compared with the active one under the controller lock right
// before each mutation, so a Reset issued from any goroutine makes the
// superseded call stop without touching the simulation again.
type Controller struct {
	sim       ports.Simulation
	stepDelay time.Duration
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	mu       sync.Mutex
	running  bool
	index    int
	active   domain.RunToken
	hasToken bool
	minted   domain.RunToken
	cancel   context.CancelFunc
}

// NewController creates a controller that exclusively drives sim.
func NewController(sim ports.Simulation, opts ...Option) *Controller {
	c := &Controller{
		sim:       sim,
		stepDelay: DefaultStepDelay,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Simulation returns the driven simulation.
func (c *Controller) Simulation() ports.Simulation {
	return c.sim
}

// State returns a snapshot of the controller bookkeeping.
func (c *Controller) State() domain.ExecutionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ExecutionState{
		Running:      c.running,
		CurrentIndex: c.index,
		ActiveToken:  c.active,
		HasToken:     c.hasToken,
	}
}

// Running reports whether a run or step currently holds the controller.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// ExecuteProgram runs the whole program, pausing for the step delay after
// every command. It blocks until the run ends; hosts wanting asynchronous
// behaviour call it from a goroutine.
//
// It returns false without any state change when another run or step is in
// progress, and false when a Reset or ctx cancellation interrupted the run.
// A simulation reporting game over ends the run early and counts as
// completed.
func (c *Controller) ExecuteProgram(ctx context.Context, program domain.Program) bool {
	cmds := program.Expand()

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "run rejected, controller busy")
		c.emitRunFinish(ctx, 0, len(cmds), domain.OutcomeRejected)
		return false
	}
	token, runCtx := c.begin(ctx, 0)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "run started", "token", token, "length", len(cmds))
	c.emitRunStart(ctx, token, len(cmds))

	for i, cmd := range cmds {
		if ctx.Err() != nil {
			return c.abort(ctx, token, len(cmds))
		}
		outcome, snap, ok := c.apply(token, i, cmd)
		if !ok {
			return c.abort(ctx, token, len(cmds))
		}
		c.emitCommand(ctx, token, i, cmd, snap)

		if outcome.GameOver {
			if !c.finish(token) {
				return c.abort(ctx, token, len(cmds))
			}
			c.logger.DebugContext(ctx, "run ended by game over", "token", token, "index", i)
			c.emitRunFinish(ctx, token, len(cmds), domain.OutcomeGameOver)
			return true
		}

		c.wait(runCtx)
	}

	if ctx.Err() != nil || !c.finish(token) {
		return c.abort(ctx, token, len(cmds))
	}
	c.logger.DebugContext(ctx, "run completed", "token", token)
	c.emitRunFinish(ctx, token, len(cmds), domain.OutcomeCompleted)
	return true
}

// ExecuteStep applies only the command at index and waits one step delay.
// It returns index+1, or -1 when index was the last command (or outside the
// program). While a run is in progress the step is rejected and index is
// returned unchanged. A Reset during the delay makes it return 0, the cursor
// a reset restores.
func (c *Controller) ExecuteStep(ctx context.Context, program domain.Program, index int) int {
	cmds := program.Expand()

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "step rejected, controller busy", "index", index)
		return index
	}
	if index < 0 || index >= len(cmds) {
		c.mu.Unlock()
		return -1
	}
	token, runCtx := c.begin(ctx, index)
	outcome, snap := c.applyLocked(index, cmds[index])
	c.mu.Unlock()

	c.emitCommand(ctx, token, index, cmds[index], snap)
	if !outcome.GameOver {
		c.wait(runCtx)
	}

	if !c.finish(token) {
		c.logger.DebugContext(ctx, "step superseded by reset", "token", token, "index", index)
		return 0
	}
	if index == len(cmds)-1 {
		return -1
	}
	return index + 1
}

// Reset invalidates the active token, wakes any pending delay and restores
// the simulation. It returns once the simulation is back at its initial
// state; superseded calls observe the stale token before mutating again.
func (c *Controller) Reset() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.hasToken = false
	c.running = false
	c.index = 0
	c.sim.Reset()
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.logger.Debug("controller reset")
	c.emitReset(context.Background())
}

// begin mints a token and marks the controller busy. Caller holds c.mu.
func (c *Controller) begin(ctx context.Context, index int) (domain.RunToken, context.Context) {
	c.minted++
	c.active = c.minted
	c.hasToken = true
	c.running = true
	c.index = index

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return c.active, runCtx
}

// apply performs the token check and the mutation atomically.
func (c *Controller) apply(token domain.RunToken, index int, cmd domain.Command) (domain.Outcome, domain.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasToken || c.active != token {
		return domain.Outcome{}, domain.Snapshot{}, false
	}
	outcome, snap := c.applyLocked(index, cmd)
	return outcome, snap, true
}

func (c *Controller) applyLocked(index int, cmd domain.Command) (domain.Outcome, domain.Snapshot) {
	outcome := c.sim.Apply(cmd)
	if !outcome.Applied {
		c.logger.Warn("unsupported command ignored", "kind", cmd.Kind, "index", index)
	}
	c.index = index + 1
	return outcome, c.sim.Snapshot()
}

// finish releases the controller if token is still the active one and
// reports whether it was.
func (c *Controller) finish(token domain.RunToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasToken || c.active != token {
		return false
	}
	c.running = false
	c.hasToken = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return true
}

// abort ends a run that lost its token or its context. A run cancelled
// through ctx still owns the controller and releases it; a run superseded
// by Reset leaves everything to the newer owner.
func (c *Controller) abort(ctx context.Context, token domain.RunToken, length int) bool {
	if c.finish(token) {
		c.logger.DebugContext(ctx, "run cancelled", "token", token, "err", ctx.Err())
	} else {
		c.logger.DebugContext(ctx, "run superseded by reset", "token", token)
	}
	c.emitRunFinish(ctx, token, length, domain.OutcomeAborted)
	return false
}

func (c *Controller) wait(ctx context.Context) {
	if c.stepDelay <= 0 {
		return
	}
	timer := time.NewTimer(c.stepDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
