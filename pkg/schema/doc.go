// Package schema reads and writes the documents robobunny exchanges with the
// outside world: saved workspaces (block programs) and level maps.
//
// Documents are accepted as YAML or JSON. Raw data is first checked against
// a small structural type system, then decoded with mapstructure so that
// loosely typed input (a jump distance written as 2 instead of "2") still
// lands in the typed domain structs:
//
//	ws, err := schema.ParseWorkspace(data)
//	if err != nil {
//	    // errors.Is(err, domain.ErrInvalidDocument)
//	}
//	root := schema.Graph(ws)
//	program := compiler.Flatten(root)
//
// Validation failures are reported as an *AggregateError listing every
// offending field path.
package schema
