package dsl

import (
	"strconv"

	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/domain"
)

// Builder manages the construction of one block chain.
type Builder struct {
	nodes []*NodeBuilder
}

// New creates a new chain builder.
func New() *Builder {
	return &Builder{}
}

// Add appends a block of any type to the chain.
func (b *Builder) Add(kind string) *NodeBuilder {
	nb := &NodeBuilder{block: memory.NewBlock(kind)}
	b.nodes = append(b.nodes, nb)
	return nb
}

// Jump appends an F_Jump block.
func (b *Builder) Jump(steps int) *NodeBuilder {
	return b.Add(domain.BlockForwardJump).Value(strconv.Itoa(steps))
}

// RightJump appends an FR_Jump block.
func (b *Builder) RightJump(steps int) *NodeBuilder {
	return b.Add(domain.BlockForwardRightJump).Value(strconv.Itoa(steps))
}

// LeftJump appends an FL_Jump block.
func (b *Builder) LeftJump(steps int) *NodeBuilder {
	return b.Add(domain.BlockForwardLeftJump).Value(strconv.Itoa(steps))
}

// Turn appends a Turn block.
func (b *Builder) Turn(dir domain.Direction) *NodeBuilder {
	return b.Add(domain.BlockTurn).Value(string(dir))
}

// Repeat appends a repeat block with a numeric TIMES literal, the way the
// toolbox creates it.
func (b *Builder) Repeat(times int) *NodeBuilder {
	return b.Add(domain.BlockRepeat).Times(strconv.Itoa(times))
}

// Build links the chain and returns its first block, or nil when empty.
func (b *Builder) Build() *memory.Block {
	blocks := make([]*memory.Block, 0, len(b.nodes))
	for _, nb := range b.nodes {
		blocks = append(blocks, nb.block)
	}
	return memory.Chain(blocks...)
}
