package schema

import (
	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

// Graph builds the block chain described by ws. An empty workspace yields a
// nil BlockNode.
func Graph(ws *domain.Workspace) ports.BlockNode {
	if ws == nil {
		return nil
	}
	root := Blocks(ws.Blocks)
	if root == nil {
		return nil
	}
	return root
}

// Blocks builds a chain of memory blocks from specs and returns its head.
func Blocks(specs []domain.BlockSpec) *memory.Block {
	blocks := make([]*memory.Block, 0, len(specs))
	for _, spec := range specs {
		blocks = append(blocks, block(spec))
	}
	return memory.Chain(blocks...)
}

func block(spec domain.BlockSpec) *memory.Block {
	b := memory.NewBlock(spec.Type).SetEnabled(!spec.Disabled)
	if spec.Value != "" {
		b.SetField(domain.FieldValue, spec.Value)
	}
	if spec.Times != "" {
		b.SetInput(domain.InputTimes, memory.NewBlock(domain.BlockNumber).SetField(domain.FieldNumber, spec.Times))
	}
	if len(spec.Do) > 0 {
		b.SetInput(domain.InputDo, Blocks(spec.Do))
	}
	return b
}

// FromGraph converts a block chain back into document form. Only the fields
// the compiler reads are kept; a TIMES input that is not a number literal is
// dropped.
func FromGraph(root ports.BlockNode) []domain.BlockSpec {
	var specs []domain.BlockSpec
	for node := root; node != nil; node = node.Next() {
		spec := domain.BlockSpec{
			Type:     node.Type(),
			Value:    node.FieldValue(domain.FieldValue),
			Disabled: !node.IsEnabled(),
		}
		if times := node.InputTarget(domain.InputTimes); times != nil && times.Type() == domain.BlockNumber {
			spec.Times = times.FieldValue(domain.FieldNumber)
		}
		if body := node.InputTarget(domain.InputDo); body != nil {
			spec.Do = FromGraph(body)
		}
		specs = append(specs, spec)
	}
	return specs
}
