package schema

import (
	"fmt"

	"github.com/aretw0/robobunny/pkg/domain"
	"gopkg.in/yaml.v3"
)

func workspaceSchema() Schema {
	return Schema{
		"name":   Optional(String()),
		"blocks": Optional(Slice(blockType())),
	}
}

// blockType is built lazily because block specs nest through "do".
func blockType() Type {
	return Custom("block", func(v any) error {
		m, ok := asMap(v)
		if !ok {
			return fmt.Errorf("expected object, got %T", v)
		}
		return Validate(Schema{
			"type":     String(),
			"value":    Optional(Scalar()),
			"times":    Optional(Scalar()),
			"disabled": Optional(Bool()),
			"do":       Optional(Slice(blockType())),
		}, m)
	})
}

// ParseWorkspace reads a saved program from YAML or JSON.
func ParseWorkspace(data []byte) (*domain.Workspace, error) {
	raw, err := parseRaw(data)
	if err != nil {
		return nil, err
	}
	var ws domain.Workspace
	if err := decode(workspaceSchema(), raw, &ws); err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	return &ws, nil
}

// MarshalWorkspace encodes ws as YAML.
func MarshalWorkspace(ws *domain.Workspace) ([]byte, error) {
	if ws == nil {
		return nil, fmt.Errorf("%w: nil workspace", domain.ErrInvalidDocument)
	}
	return yaml.Marshal(ws)
}
