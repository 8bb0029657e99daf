package schema

import (
	"fmt"

	"github.com/aretw0/robobunny/pkg/domain"
)

// mapDocument is the level format used by the editor's map import.
type mapDocument struct {
	Name           string            `mapstructure:"name"`
	GridSize       int               `mapstructure:"gridSize"`
	MapData        [][]domain.Cell   `mapstructure:"mapData"`
	BunnyPosition  domain.Placement  `mapstructure:"bunnyPosition"`
	BunnyPosition2 *domain.Placement `mapstructure:"bunnyPosition2"`
	BlockLimit     int               `mapstructure:"blockLimit"`
}

func placementType() Type {
	heading := Enum(
		string(domain.HeadingUp),
		string(domain.HeadingRight),
		string(domain.HeadingDown),
		string(domain.HeadingLeft),
	)
	return Object(Schema{
		"x":         Int(),
		"y":         Int(),
		"direction": heading,
	})
}

func mapSchema() Schema {
	cell := Object(Schema{
		"type":  String(),
		"value": Optional(Int()),
	})
	return Schema{
		"name":           Optional(String()),
		"gridSize":       Optional(Int()),
		"mapData":        Optional(Slice(Slice(cell))),
		"bunnyPosition":  placementType(),
		"bunnyPosition2": Optional(placementType()),
		"blockLimit":     Optional(Int()),
	}
}

// ParseMap reads a level document. Grid geometry is checked when the map is
// loaded into a simulation; this only checks the document shape.
func ParseMap(data []byte) (domain.MapDefinition, error) {
	raw, err := parseRaw(data)
	if err != nil {
		return domain.MapDefinition{}, err
	}
	var doc mapDocument
	if err := decode(mapSchema(), raw, &doc); err != nil {
		return domain.MapDefinition{}, fmt.Errorf("map: %w", err)
	}

	size := doc.GridSize
	if size == 0 {
		size = len(doc.MapData)
	}
	return domain.MapDefinition{
		Name:       doc.Name,
		GridSize:   size,
		Cells:      doc.MapData,
		Bunny:      doc.BunnyPosition,
		Bunny2:     doc.BunnyPosition2,
		BlockLimit: doc.BlockLimit,
	}, nil
}
