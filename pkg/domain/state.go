package domain

// RunToken identifies one run or step invocation. Tokens increase
// monotonically per controller; a held token that no longer matches the
// active one means a reset superseded the caller.
type RunToken uint64

// ExecutionState is a snapshot of the controller's bookkeeping.
type ExecutionState struct {
	Running      bool     `json:"running"`
	CurrentIndex int      `json:"current_index"`
	ActiveToken  RunToken `json:"active_token,omitempty"`
	HasToken     bool     `json:"has_token"`
}

// RunOutcome classifies how an ExecuteProgram call ended.
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeGameOver  RunOutcome = "game_over"
	OutcomeRejected  RunOutcome = "rejected"
	OutcomeAborted   RunOutcome = "aborted"
)

// StatusKind is the category of a status message published to hosts.
type StatusKind string

const (
	StatusInfo     StatusKind = "info"
	StatusRunning  StatusKind = "running"
	StatusComplete StatusKind = "complete"
	StatusError    StatusKind = "error"
)

// Status is the last message shown to the user.
type Status struct {
	Message string     `json:"message"`
	Kind    StatusKind `json:"kind"`
}
