package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// parseRaw reads a YAML or JSON document into generic data. JSON is decoded
// with encoding/json because YAML rejects tab indentation.
func parseRaw(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidDocument)
	}

	var raw any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	m, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping at the top level, got %T", domain.ErrInvalidDocument, raw)
	}
	return m, nil
}

// decode validates raw against s and decodes it into out.
func decode(s Schema, raw map[string]any, out any) error {
	if err := Validate(s, raw); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return nil
}
