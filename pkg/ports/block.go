package ports

// BlockNode is a read-only view of a node in the editor's block graph.
// Implementations must return a nil interface (not a typed nil pointer) when
// there is no next block or no input target.
type BlockNode interface {
	// IsEnabled reports whether the block takes part in the program.
	IsEnabled() bool

	// Type returns the block type, e.g. "F_Jump" or "controls_repeat_ext".
	Type() string

	// Next returns the block connected below this one, or nil.
	Next() BlockNode

	// FieldValue returns the text of the named field, or "" when absent.
	FieldValue(name string) string

	// InputTarget returns the first block plugged into the named input, or nil.
	InputTarget(name string) BlockNode
}
