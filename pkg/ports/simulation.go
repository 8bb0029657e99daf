package ports

import "github.com/aretw0/robobunny/pkg/domain"

// Simulation is the agent state the execution controller drives.
// The controller is its only writer while a run is active; hosts may read
// Snapshot at any time.
type Simulation interface {
	// Loaded reports whether a map is available to run against.
	Loaded() bool

	// Apply executes one command against every agent.
	Apply(cmd domain.Command) domain.Outcome

	// Reset restores the initial placement of every agent, zeroes move
	// counters and score and clears the game-over flag.
	Reset()

	// Snapshot returns a copy of the current state.
	Snapshot() domain.Snapshot
}
