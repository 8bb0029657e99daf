package simulation

import (
	"fmt"
	"sync"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

// Grid implements ports.Simulation on a square grid.
// Safe for concurrent use; the controller is expected to be the only writer.
type Grid struct {
	mu       sync.RWMutex
	def      *domain.MapDefinition
	cells    [][]domain.Cell
	agents   []domain.AgentSnapshot
	score    int
	gameOver bool
}

var _ ports.Simulation = (*Grid)(nil)

// New creates a Grid with no map loaded.
func New() *Grid {
	return &Grid{}
}

// NewFromMap creates a Grid and loads def into it.
func NewFromMap(def domain.MapDefinition) (*Grid, error) {
	g := New()
	if err := g.LoadMap(def); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadMap validates def and makes it the active level, placing every agent at
// its initial position. A missing cell matrix is filled with empty cells.
func (g *Grid) LoadMap(def domain.MapDefinition) error {
	if def.GridSize <= 0 {
		def.GridSize = len(def.Cells)
	}
	if def.GridSize <= 0 {
		return fmt.Errorf("%w: grid size must be positive", domain.ErrInvalidDocument)
	}
	if def.Cells == nil {
		def.Cells = emptyCells(def.GridSize)
	}
	if len(def.Cells) != def.GridSize {
		return fmt.Errorf("%w: expected %d rows, got %d", domain.ErrInvalidDocument, def.GridSize, len(def.Cells))
	}
	for y, row := range def.Cells {
		if len(row) != def.GridSize {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", domain.ErrInvalidDocument, y, len(row), def.GridSize)
		}
	}
	for i, p := range def.Placements() {
		if !inside(def.GridSize, p.X, p.Y) {
			return fmt.Errorf("%w: bunny %d placed outside the grid at (%d,%d)", domain.ErrInvalidDocument, i+1, p.X, p.Y)
		}
		if !p.Direction.Valid() {
			return fmt.Errorf("%w: bunny %d has unknown direction %q", domain.ErrInvalidDocument, i+1, p.Direction)
		}
	}

	stored := def
	stored.Cells = copyCells(def.Cells)
	if def.Bunny2 != nil {
		b2 := *def.Bunny2
		stored.Bunny2 = &b2
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.def = &stored
	g.resetLocked()
	return nil
}

// Definition returns a copy of the loaded map.
func (g *Grid) Definition() (domain.MapDefinition, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.def == nil {
		return domain.MapDefinition{}, false
	}
	def := *g.def
	def.Cells = copyCells(g.def.Cells)
	return def, true
}

// Loaded implements ports.Simulation.
func (g *Grid) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.def != nil
}

// Apply implements ports.Simulation. Every agent receives the command.
func (g *Grid) Apply(cmd domain.Command) domain.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.def == nil {
		return domain.Outcome{}
	}
	if g.gameOver {
		return domain.Outcome{Applied: true, GameOver: true}
	}

	switch {
	case cmd.Kind.IsMove():
		for i := range g.agents {
			g.move(&g.agents[i], cmd)
		}
	case cmd.Kind == domain.CommandTurn:
		quarters, ok := turnQuarters(cmd.Direction)
		if !ok {
			return domain.Outcome{}
		}
		for i := range g.agents {
			g.agents[i].Direction = g.agents[i].Direction.Rotate(quarters)
		}
	default:
		return domain.Outcome{}
	}
	return domain.Outcome{Applied: true, GameOver: g.gameOver}
}

// Reset implements ports.Simulation.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.def == nil {
		return
	}
	g.resetLocked()
}

// Snapshot implements ports.Simulation.
func (g *Grid) Snapshot() domain.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	agents := make([]domain.AgentSnapshot, len(g.agents))
	copy(agents, g.agents)
	return domain.Snapshot{
		Loaded:   g.def != nil,
		Agents:   agents,
		Score:    g.score,
		GameOver: g.gameOver,
	}
}

// move jumps an agent; it lands only on the destination cell.
func (g *Grid) move(agent *domain.AgentSnapshot, cmd domain.Command) {
	fx, fy := agent.Direction.Delta()
	var sx, sy int
	switch cmd.Kind {
	case domain.CommandForwardRight:
		sx, sy = agent.Direction.Rotate(1).Delta()
	case domain.CommandForwardLeft:
		sx, sy = agent.Direction.Rotate(-1).Delta()
	}

	x := agent.X + cmd.Steps*(fx+sx)
	y := agent.Y + cmd.Steps*(fy+sy)
	agent.Moves++

	if !inside(g.def.GridSize, x, y) {
		g.gameOver = true
		return
	}
	agent.X, agent.Y = x, y

	cell := &g.cells[y][x]
	switch cell.Type {
	case domain.CellRock:
		g.gameOver = true
	case domain.CellCarrot:
		value := cell.Value
		if value == 0 {
			value = 1
		}
		g.score += value
		*cell = domain.Cell{Type: domain.CellEmpty}
	}
}

func (g *Grid) resetLocked() {
	g.cells = copyCells(g.def.Cells)
	placements := g.def.Placements()
	g.agents = make([]domain.AgentSnapshot, len(placements))
	for i, p := range placements {
		g.agents[i] = domain.AgentSnapshot{Placement: p}
	}
	g.score = 0
	g.gameOver = false
}

func turnQuarters(dir domain.Direction) (int, bool) {
	switch dir {
	case domain.DirectionRight:
		return 1, true
	case domain.DirectionLeft:
		return -1, true
	case domain.DirectionBack:
		return 2, true
	}
	return 0, false
}

func inside(size, x, y int) bool {
	return x >= 0 && y >= 0 && x < size && y < size
}

func emptyCells(size int) [][]domain.Cell {
	cells := make([][]domain.Cell, size)
	for y := range cells {
		cells[y] = make([]domain.Cell, size)
		for x := range cells[y] {
			cells[y][x] = domain.Cell{Type: domain.CellEmpty}
		}
	}
	return cells
}

func copyCells(src [][]domain.Cell) [][]domain.Cell {
	out := make([][]domain.Cell, len(src))
	for y, row := range src {
		out[y] = make([]domain.Cell, len(row))
		copy(out[y], row)
	}
	return out
}
