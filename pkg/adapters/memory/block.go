package memory

import "github.com/aretw0/robobunny/pkg/ports"

// Block implements ports.BlockNode as a plain in-memory tree.
// It is what documents and the dsl builder produce; an editor integration
// would supply its own ports.BlockNode instead.
type Block struct {
	kind     string
	disabled bool
	fields   map[string]string
	inputs   map[string]*Block
	next     *Block
}

var _ ports.BlockNode = (*Block)(nil)

// NewBlock creates an enabled block of the given type.
func NewBlock(kind string) *Block {
	return &Block{
		kind:   kind,
		fields: make(map[string]string),
		inputs: make(map[string]*Block),
	}
}

// SetField sets the text of a field.
func (b *Block) SetField(name, value string) *Block {
	b.fields[name] = value
	return b
}

// SetInput plugs target into the named input. A nil target clears it.
func (b *Block) SetInput(name string, target *Block) *Block {
	if target == nil {
		delete(b.inputs, name)
		return b
	}
	b.inputs[name] = target
	return b
}

// SetNext connects next below b.
func (b *Block) SetNext(next *Block) *Block {
	b.next = next
	return b
}

// SetEnabled toggles whether the block takes part in the program.
func (b *Block) SetEnabled(enabled bool) *Block {
	b.disabled = !enabled
	return b
}

// The read accessors accept a nil receiver: a nil *Block stored in a
// ports.BlockNode reads as a disabled block with no links.

// IsEnabled implements ports.BlockNode.
func (b *Block) IsEnabled() bool { return b != nil && !b.disabled }

// Type implements ports.BlockNode.
func (b *Block) Type() string {
	if b == nil {
		return ""
	}
	return b.kind
}

// FieldValue implements ports.BlockNode.
func (b *Block) FieldValue(name string) string {
	if b == nil {
		return ""
	}
	return b.fields[name]
}

// Next implements ports.BlockNode.
func (b *Block) Next() ports.BlockNode {
	if b == nil || b.next == nil {
		return nil
	}
	return b.next
}

// InputTarget implements ports.BlockNode.
func (b *Block) InputTarget(name string) ports.BlockNode {
	if b == nil {
		return nil
	}
	target, ok := b.inputs[name]
	if !ok || target == nil {
		return nil
	}
	return target
}

// NextBlock returns the concrete next block.
func (b *Block) NextBlock() *Block {
	if b == nil {
		return nil
	}
	return b.next
}

// Input returns the concrete block plugged into the named input.
func (b *Block) Input(name string) *Block {
	if b == nil {
		return nil
	}
	return b.inputs[name]
}

// Chain links blocks top to bottom and returns the first one.
// Nil entries are skipped; Chain() returns nil.
func Chain(blocks ...*Block) *Block {
	var head, tail *Block
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if head == nil {
			head = b
		} else {
			tail.SetNext(b)
		}
		tail = b
		for tail.next != nil {
			tail = tail.next
		}
	}
	return head
}
