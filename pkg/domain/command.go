package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies the instruction a Command carries.
type CommandKind string

const (
	CommandForward      CommandKind = BlockForwardJump
	CommandForwardRight CommandKind = BlockForwardRightJump
	CommandForwardLeft  CommandKind = BlockForwardLeftJump
	CommandTurn         CommandKind = BlockTurn

	// CommandRepeat is a nested loop accepted by the controller for programs
	// built by hand. The compiler never emits it; see Program.Expand.
	CommandRepeat CommandKind = "Repeat"
)

// IsMove reports whether the kind advances an agent.
func (k CommandKind) IsMove() bool {
	switch k {
	case CommandForward, CommandForwardRight, CommandForwardLeft:
		return true
	}
	return false
}

// Direction is the parameter of a Turn command.
type Direction string

const (
	DirectionRight Direction = "右"
	DirectionLeft  Direction = "左"
	DirectionBack  Direction = "後"
)

// Valid reports whether d is one of the known turn directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionRight, DirectionLeft, DirectionBack:
		return true
	}
	return false
}

// Command is one atomic instruction. Treat it as a value: copies obtained
// through Clone never share a Body with the original.
type Command struct {
	Kind      CommandKind
	Steps     int       // jump distance, for move kinds
	Direction Direction // for CommandTurn
	Times     int       // for CommandRepeat
	Body      Program   // for CommandRepeat
}

// Jump builds a move command of the given kind.
func Jump(kind CommandKind, steps int) Command {
	return Command{Kind: kind, Steps: steps}
}

// Forward builds an F_Jump command.
func Forward(steps int) Command {
	return Jump(CommandForward, steps)
}

// Turn builds a Turn command.
func Turn(dir Direction) Command {
	return Command{Kind: CommandTurn, Direction: dir}
}

// Repeat builds a nested loop command.
func Repeat(times int, body ...Command) Command {
	return Command{Kind: CommandRepeat, Times: times, Body: Program(body).Clone()}
}

// Value returns the wire parameter: the step count for moves, the direction
// for turns and nil for anything else.
func (c Command) Value() any {
	switch {
	case c.Kind.IsMove():
		return c.Steps
	case c.Kind == CommandTurn:
		return c.Direction
	}
	return nil
}

// Clone returns a deep copy of the command.
func (c Command) Clone() Command {
	out := c
	if c.Body != nil {
		out.Body = c.Body.Clone()
	}
	return out
}

func (c Command) String() string {
	switch {
	case c.Kind.IsMove():
		return fmt.Sprintf("%s(%d)", c.Kind, c.Steps)
	case c.Kind == CommandTurn:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Direction)
	case c.Kind == CommandRepeat:
		return fmt.Sprintf("%s(%d)%v", c.Kind, c.Times, []Command(c.Body))
	}
	return string(c.Kind)
}

type wireCommand struct {
	Type  CommandKind     `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
	Times *int            `json:"times,omitempty"`
	Body  Program         `json:"body,omitempty"`
}

// MarshalJSON encodes the command as {"type": ..., "value": ...}.
func (c Command) MarshalJSON() ([]byte, error) {
	w := wireCommand{Type: c.Kind}
	if c.Kind == CommandRepeat {
		times := c.Times
		w.Times = &times
		w.Body = c.Body
		if w.Body == nil {
			w.Body = Program{}
		}
		return json.Marshal(w)
	}
	if v := c.Value(); v != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts numeric values either as JSON numbers or as strings,
// the way the editor's dropdown fields hand them over.
func (c *Command) UnmarshalJSON(data []byte) error {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Command{Kind: w.Type}
	switch {
	case w.Type.IsMove():
		steps, err := decodeSteps(w.Value)
		if err != nil {
			return fmt.Errorf("command %s: %w", w.Type, err)
		}
		out.Steps = steps
	case w.Type == CommandTurn:
		var dir string
		if len(w.Value) > 0 {
			if err := json.Unmarshal(w.Value, &dir); err != nil {
				return fmt.Errorf("command %s: %w", w.Type, err)
			}
		}
		out.Direction = Direction(dir)
	case w.Type == CommandRepeat:
		if w.Times != nil {
			out.Times = *w.Times
		}
		out.Body = w.Body
	}
	*c = out
	return nil
}

func decodeSteps(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid value %s", raw)
	}
	return ParseLeadingInt(s), nil
}

// ParseLeadingInt parses the integer prefix of s, ignoring surrounding
// whitespace and any trailing garbage. It returns 0 when s has no integer
// prefix.
func ParseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Program is an ordered sequence of Commands.
type Program []Command

// Clone returns a deep copy. The result is never nil.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

// Expand unrolls nested Repeat commands into a linear Program. Every copy of
// a loop body is cloned independently. Repeats with Times <= 0 contribute
// nothing.
func (p Program) Expand() Program {
	out := make(Program, 0, len(p))
	for _, c := range p {
		if c.Kind != CommandRepeat {
			out = append(out, c.Clone())
			continue
		}
		body := c.Body.Expand()
		for i := 0; i < c.Times; i++ {
			out = append(out, body.Clone()...)
		}
	}
	return out
}

// Equal reports whether p and o hold the same commands in the same order,
// comparing Repeat bodies recursively. A nil and an empty Program are equal.
func (p Program) Equal(o Program) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether c and o are the same command.
func (c Command) Equal(o Command) bool {
	return c.Kind == o.Kind &&
		c.Steps == o.Steps &&
		c.Direction == o.Direction &&
		c.Times == o.Times &&
		c.Body.Equal(o.Body)
}
