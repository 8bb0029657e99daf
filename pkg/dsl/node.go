package dsl

import (
	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring one block.
type NodeBuilder struct {
	block *memory.Block
}

// Value sets the VALUE field.
func (n *NodeBuilder) Value(v string) *NodeBuilder {
	n.block.SetField(domain.FieldValue, v)
	return n
}

// Field sets an arbitrary field.
func (n *NodeBuilder) Field(name, value string) *NodeBuilder {
	n.block.SetField(name, value)
	return n
}

// Times plugs a math_number literal with the given text into TIMES.
func (n *NodeBuilder) Times(num string) *NodeBuilder {
	lit := memory.NewBlock(domain.BlockNumber).SetField(domain.FieldNumber, num)
	n.block.SetInput(domain.InputTimes, lit)
	return n
}

// TimesBlock plugs an arbitrary block into TIMES; nil removes the input.
func (n *NodeBuilder) TimesBlock(target *memory.Block) *NodeBuilder {
	n.block.SetInput(domain.InputTimes, target)
	return n
}

// Do builds the loop body.
func (n *NodeBuilder) Do(fn func(body *Builder)) *NodeBuilder {
	body := New()
	fn(body)
	n.block.SetInput(domain.InputDo, body.Build())
	return n
}

// Disable marks the block as disabled in the editor.
func (n *NodeBuilder) Disable() *NodeBuilder {
	n.block.SetEnabled(false)
	return n
}

// Build returns the underlying block.
func (n *NodeBuilder) Build() *memory.Block {
	return n.block
}
