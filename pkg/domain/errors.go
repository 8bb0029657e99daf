package domain

import "errors"

// ErrEmptyProgram is returned when a run or step is requested for a program
// that compiles to no commands.
var ErrEmptyProgram = errors.New("program is empty")

// ErrMapNotLoaded is returned when a run or step is requested before a map
// was loaded into the simulation.
var ErrMapNotLoaded = errors.New("no map loaded")

// ErrGameOver is returned when a step is requested after the game ended.
var ErrGameOver = errors.New("game is over")

// ErrProgramNotFound is returned when a program name cannot be found in the store.
var ErrProgramNotFound = errors.New("program not found")

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidDocument is returned when a workspace or map document fails validation.
var ErrInvalidDocument = errors.New("invalid document")

// ErrMapNotFound is returned when a level name is not registered.
var ErrMapNotFound = errors.New("map not found")
