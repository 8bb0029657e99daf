package domain

// BlockSpec is the document form of one block and, through Do, its loop body.
type BlockSpec struct {
	Type     string      `json:"type" yaml:"type" mapstructure:"type"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Times    string      `json:"times,omitempty" yaml:"times,omitempty" mapstructure:"times"`
	Do       []BlockSpec `json:"do,omitempty" yaml:"do,omitempty" mapstructure:"do"`
	Disabled bool        `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
}

// Workspace is a saved program: the top-level block chain in order.
type Workspace struct {
	Name   string      `json:"name" yaml:"name" mapstructure:"name"`
	Blocks []BlockSpec `json:"blocks" yaml:"blocks" mapstructure:"blocks"`
}
