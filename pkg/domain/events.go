package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunFinish EventType = "run_finish"
	EventCommand   EventType = "command"
	EventReset     EventType = "reset"
	EventStatus    EventType = "status"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Token     RunToken  `json:"token,omitempty"`
}

// RunEvent marks the start or end of an ExecuteProgram call.
type RunEvent struct {
	EventBase
	Length  int        `json:"length"`
	Outcome RunOutcome `json:"outcome,omitempty"`
}

// CommandEvent is emitted after a command was applied to the simulation.
type CommandEvent struct {
	EventBase
	Index    int      `json:"index"`
	Command  Command  `json:"command"`
	Snapshot Snapshot `json:"snapshot"`
}

// ResetEvent is emitted after the controller restored the simulation.
// Hosts clear any visual highlight here.
type ResetEvent struct {
	EventBase
}

// StatusEvent carries a status message for the user.
type StatusEvent struct {
	EventBase
	Status Status `json:"status"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunFinish func(context.Context, *RunEvent)
	OnCommand   func(context.Context, *CommandEvent)
	OnReset     func(context.Context, *ResetEvent)
	OnStatus    func(context.Context, *StatusEvent)
}
