package robobunny

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/robobunny/internal/compiler"
	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/internal/runtime"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/aretw0/robobunny/pkg/simulation"
)

const (
	// DefaultSettleDelay separates the reset before a full run from its
	// first command.
	DefaultSettleDelay = 100 * time.Millisecond

	// DefaultBlockLimit is the block budget of a level without its own.
	DefaultBlockLimit = 20
)

// Status messages shown to the player.
const (
	MessageEmptyProgram = "請先建立程式！"
	MessageNoMap        = "請先選擇地圖！"
	MessageRunning      = "執行中…"
	messageComplete     = "完成！得分：%d"
	messageGameOver     = "遊戲結束！得分：%d"
)

// StepResult reports the outcome of StepProgram.
type StepResult struct {
	// Next is the index the following step will execute, or -1 once the
	// last command ran.
	Next     int             `json:"next"`
	Done     bool            `json:"done"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// Editor is the caller layer around the core: it compiles block graphs,
// guards run and step requests and keeps the step cursor and status line a
// host displays.
type Editor struct {
	Name string

	sim         ports.Simulation
	controller  *runtime.Controller
	flattener   *compiler.Flattener
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	stepDelay   time.Duration
	settleDelay time.Duration

	mu         sync.Mutex
	blockLimit int
	cursor     int
	status     domain.Status
}

type mapLoader interface {
	LoadMap(def domain.MapDefinition) error
}

// New creates an Editor. Without WithSimulation it drives an empty
// simulation.Grid that needs LoadMap before anything can run.
func New(opts ...Option) *Editor {
	e := &Editor{
		stepDelay:   runtime.DefaultStepDelay,
		settleDelay: DefaultSettleDelay,
		blockLimit:  DefaultBlockLimit,
		status:      domain.Status{Kind: domain.StatusInfo},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.Name != "" {
		e.logger = e.logger.With("editor", e.Name)
	}
	if e.sim == nil {
		e.sim = simulation.New()
	}

	e.flattener = compiler.New(compiler.WithLogger(e.logger))
	e.controller = runtime.NewController(e.sim,
		runtime.WithStepDelay(e.stepDelay),
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	)
	return e
}

// LoadMap stops any run in progress and loads def into the simulation. A
// level with its own block limit replaces the current one.
func (e *Editor) LoadMap(def domain.MapDefinition) error {
	loader, ok := e.sim.(mapLoader)
	if !ok {
		return fmt.Errorf("simulation %T cannot load maps", e.sim)
	}

	e.Reset()
	if err := loader.LoadMap(def); err != nil {
		return err
	}
	if def.BlockLimit > 0 {
		e.SetBlockLimit(def.BlockLimit)
	}
	e.logger.Info("map loaded", "map", def.Name, "grid_size", def.GridSize, "agents", len(def.Placements()))
	return nil
}

// MapLoaded reports whether the simulation has a level.
func (e *Editor) MapLoaded() bool {
	return e.sim.Loaded()
}

// Flatten compiles the block graph into a linear program.
func (e *Editor) Flatten(root ports.BlockNode) domain.Program {
	return e.flattener.Flatten(root)
}

// BlockCount counts every block of the graph, disabled ones included.
func (e *Editor) BlockCount(root ports.BlockNode) int {
	return compiler.CountBlocks(root)
}

// BlockLimit returns the current block budget.
func (e *Editor) BlockLimit() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blockLimit
}

// SetBlockLimit changes the block budget.
func (e *Editor) SetBlockLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blockLimit = n
}

// OverLimit reports whether the graph has reached the block budget.
func (e *Editor) OverLimit(root ports.BlockNode) bool {
	return e.BlockCount(root) >= e.BlockLimit()
}

// RunProgram compiles root and runs it from a fresh reset. It blocks until
// the run ends and returns the controller's result: false when a reset or a
// newer run interrupted it.
func (e *Editor) RunProgram(ctx context.Context, root ports.BlockNode) (bool, error) {
	program := e.Flatten(root)
	if err := e.guard(ctx, program); err != nil {
		return false, err
	}

	e.Reset()
	if err := sleep(ctx, e.settleDelay); err != nil {
		return false, err
	}

	e.publish(ctx, MessageRunning, domain.StatusRunning)
	ok := e.controller.ExecuteProgram(ctx, program)
	if ok {
		e.publishResult(ctx)
	}
	return ok, nil
}

// StepProgram compiles root and executes the command under the step cursor.
func (e *Editor) StepProgram(ctx context.Context, root ports.BlockNode) (StepResult, error) {
	program := e.Flatten(root)
	if err := e.guard(ctx, program); err != nil {
		return StepResult{}, err
	}
	if e.sim.Snapshot().GameOver {
		return StepResult{Next: e.Cursor(), Snapshot: e.sim.Snapshot()}, domain.ErrGameOver
	}

	next := e.controller.ExecuteStep(ctx, program, e.Cursor())
	res := StepResult{Next: next}
	if next == -1 {
		res.Done = true
		e.publishResult(ctx)
	} else {
		e.mu.Lock()
		e.cursor = next
		e.mu.Unlock()
	}
	res.Snapshot = e.sim.Snapshot()
	return res, nil
}

// Reset rewinds the step cursor and resets the controller, interrupting any
// run in progress.
func (e *Editor) Reset() {
	e.mu.Lock()
	e.cursor = 0
	e.mu.Unlock()
	e.controller.Reset()
}

// Cursor returns the index the next StepProgram call executes.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Running reports whether a run or step is in progress.
func (e *Editor) Running() bool {
	return e.controller.Running()
}

// State returns the controller bookkeeping.
func (e *Editor) State() domain.ExecutionState {
	return e.controller.State()
}

// Status returns the last published status.
func (e *Editor) Status() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Snapshot returns the simulation state.
func (e *Editor) Snapshot() domain.Snapshot {
	return e.sim.Snapshot()
}

func (e *Editor) guard(ctx context.Context, program domain.Program) error {
	if len(program) == 0 {
		e.publish(ctx, MessageEmptyProgram, domain.StatusError)
		return domain.ErrEmptyProgram
	}
	if !e.sim.Loaded() {
		e.publish(ctx, MessageNoMap, domain.StatusError)
		return domain.ErrMapNotLoaded
	}
	return nil
}

func (e *Editor) publishResult(ctx context.Context) {
	snap := e.sim.Snapshot()
	if snap.GameOver {
		e.publish(ctx, fmt.Sprintf(messageGameOver, snap.Score), domain.StatusError)
		return
	}
	e.publish(ctx, fmt.Sprintf(messageComplete, snap.Score), domain.StatusComplete)
}

func (e *Editor) publish(ctx context.Context, message string, kind domain.StatusKind) {
	status := domain.Status{Message: message, Kind: kind}
	e.mu.Lock()
	e.status = status
	e.mu.Unlock()

	e.logger.DebugContext(ctx, "status", "message", message, "kind", kind)
	if e.hooks.OnStatus != nil {
		e.hooks.OnStatus(ctx, &domain.StatusEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStatus},
			Status:    status,
		})
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
