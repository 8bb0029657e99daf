package compiler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

// Flattener converts a block graph into a linear, loop-unrolled Program.
// It never mutates the graph and keeps no state between calls, so flattening
// the same graph twice yields equal Programs.
type Flattener struct {
	logger *slog.Logger
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithLogger reports skipped block types at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flattener) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Flattener.
func New(opts ...Option) *Flattener {
	f := &Flattener{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Flatten compiles the chain starting at root using a default Flattener.
func Flatten(root ports.BlockNode) domain.Program {
	return New().Flatten(root)
}

// Flatten compiles the chain starting at root. A nil root yields an empty,
// non-nil Program.
func (f *Flattener) Flatten(root ports.BlockNode) domain.Program {
	return f.chain(root)
}

func (f *Flattener) chain(block ports.BlockNode) domain.Program {
	cmds := domain.Program{}
	for ; block != nil; block = block.Next() {
		if !block.IsEnabled() {
			continue
		}

		switch kind := block.Type(); kind {
		case domain.BlockRepeat:
			body := f.chain(block.InputTarget(domain.InputDo))
			times := repeatTimes(block)
			for i := 0; i < times; i++ {
				cmds = append(cmds, body.Clone()...)
			}

		case domain.BlockForwardJump, domain.BlockForwardRightJump, domain.BlockForwardLeftJump:
			steps := domain.ParseLeadingInt(block.FieldValue(domain.FieldValue))
			cmds = append(cmds, domain.Jump(domain.CommandKind(kind), steps))

		case domain.BlockTurn:
			dir := domain.Direction(block.FieldValue(domain.FieldValue))
			cmds = append(cmds, domain.Turn(dir))

		default:
			// Unrecognised blocks contribute nothing; kept visible for review.
			f.logger.Debug("skipping unsupported block", "type", kind)
		}
	}
	return cmds
}

// repeatTimes reads the TIMES literal of a repeat block. Anything other than
// a math_number with a non-zero integer falls back to DefaultRepeatTimes.
func repeatTimes(block ports.BlockNode) int {
	target := block.InputTarget(domain.InputTimes)
	if target == nil || target.Type() != domain.BlockNumber {
		return domain.DefaultRepeatTimes
	}
	n := domain.ParseLeadingInt(target.FieldValue(domain.FieldNumber))
	if n == 0 {
		return domain.DefaultRepeatTimes
	}
	return n
}

// CountBlocks returns the number of blocks in the graph rooted at root,
// including disabled blocks, loop bodies and TIMES literals. Hosts compare
// it against the block limit.
func CountBlocks(root ports.BlockNode) int {
	count := 0
	for block := root; block != nil; block = block.Next() {
		count++
		if block.Type() == domain.BlockRepeat {
			count += CountBlocks(block.InputTarget(domain.InputTimes))
			count += CountBlocks(block.InputTarget(domain.InputDo))
		}
	}
	return count
}

// Describe renders a program as one command per line, e.g. for CLI output.
func Describe(p domain.Program) string {
	var sb strings.Builder
	for i, c := range p {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
