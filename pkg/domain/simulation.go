package domain

// Heading is the direction an agent faces on the grid.
type Heading string

const (
	HeadingUp    Heading = "up"
	HeadingRight Heading = "right"
	HeadingDown  Heading = "down"
	HeadingLeft  Heading = "left"
)

var headings = []Heading{HeadingUp, HeadingRight, HeadingDown, HeadingLeft}

// Valid reports whether h is a known heading.
func (h Heading) Valid() bool {
	for _, known := range headings {
		if h == known {
			return true
		}
	}
	return false
}

// Rotate turns the heading clockwise by quarter turns (negative is
// counter-clockwise). Unknown headings are returned unchanged.
func (h Heading) Rotate(quarters int) Heading {
	for i, known := range headings {
		if h == known {
			n := (i + quarters) % len(headings)
			if n < 0 {
				n += len(headings)
			}
			return headings[n]
		}
	}
	return h
}

// Delta returns the grid offset of one cell forward. Y grows downwards.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingRight:
		return 1, 0
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	}
	return 0, 0
}

// Placement is an agent position plus heading.
type Placement struct {
	X         int     `json:"x" yaml:"x" mapstructure:"x"`
	Y         int     `json:"y" yaml:"y" mapstructure:"y"`
	Direction Heading `json:"direction" yaml:"direction" mapstructure:"direction"`
}

// Cell types with simulation meaning. Other types are inert.
const (
	CellEmpty  = "empty"
	CellCarrot = "carrot"
	CellRock   = "rock"
)

// Cell is one square of the map.
type Cell struct {
	Type  string `json:"type" yaml:"type" mapstructure:"type"`
	Value int    `json:"value" yaml:"value" mapstructure:"value"`
}

// MapDefinition is a loaded level: the grid plus initial placements.
type MapDefinition struct {
	Name       string
	GridSize   int
	Cells      [][]Cell
	Bunny      Placement
	Bunny2     *Placement
	BlockLimit int
}

// Placements returns the initial placement of every agent, in agent order.
func (m MapDefinition) Placements() []Placement {
	out := []Placement{m.Bunny}
	if m.Bunny2 != nil {
		out = append(out, *m.Bunny2)
	}
	return out
}

// AgentSnapshot is the live state of one agent.
type AgentSnapshot struct {
	Placement
	Moves int `json:"moves"`
}

// Snapshot is a read-only view of the simulation.
type Snapshot struct {
	Loaded   bool            `json:"loaded"`
	Agents   []AgentSnapshot `json:"agents"`
	Score    int             `json:"score"`
	GameOver bool            `json:"game_over"`
}

// Outcome reports the effect of applying one command.
type Outcome struct {
	// Applied is false when the command kind was not recognised.
	Applied  bool
	GameOver bool
}
