package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Overlay marks blocks to highlight on the diagram, by node ID as produced
// by NodeID.
type Overlay struct {
	Visited []string
	Current string
}

// NodeID names the block at the given path of child indexes, e.g. the
// second block inside the first top-level repeat is NodeID(0, 1) == "b0_1".
func NodeID(path ...int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return "b" + strings.Join(parts, "_")
}

// GenerateMermaid produces a Mermaid flowchart for a workspace.
// Shapes:
// - Repeat: {{Hexagon}} with an edge into its body and a dotted edge back
// - Turn: ([Stadium])
// - Default: [Rectangle]
// Disabled blocks are drawn with the "disabled" class.
func GenerateMermaid(ws *domain.Workspace, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var disabled []string
	if ws != nil {
		writeChain(&sb, ws.Blocks, nil, &disabled)
	}

	if len(disabled) > 0 || overlay != nil {
		sb.WriteString("\n    %% Styles\n")
	}
	if len(disabled) > 0 {
		sb.WriteString("    classDef disabled fill:#eee,stroke:#999,stroke-dasharray:4 2,color:#999;\n")
		for _, id := range disabled {
			sb.WriteString(fmt.Sprintf("    class %s disabled;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			if !seen[id] && id != "" {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.Current))
		}
	}

	return sb.String()
}

// writeChain emits one chain and returns the ID of its last block, or "".
func writeChain(sb *strings.Builder, blocks []domain.BlockSpec, parent []int, disabled *[]string) string {
	prev := ""
	for i, b := range blocks {
		path := append(append([]int(nil), parent...), i)
		id := NodeID(path...)

		opener, closer := "[", "]"
		label := b.Type
		switch b.Type {
		case domain.BlockRepeat:
			opener, closer = "{{", "}}"
			label = fmt.Sprintf("repeat %s", b.Times)
		case domain.BlockTurn:
			opener, closer = "([", "])"
			label = fmt.Sprintf("%s %s", b.Type, b.Value)
		default:
			if b.Value != "" {
				label = fmt.Sprintf("%s %s", b.Type, b.Value)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label), closer))
		if b.Disabled {
			*disabled = append(*disabled, id)
		}

		if prev != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		}

		if b.Type == domain.BlockRepeat && len(b.Do) > 0 {
			last := writeChain(sb, b.Do, path, disabled)
			sb.WriteString(fmt.Sprintf("    %s -- \"do\" --> %s\n", id, NodeID(append(path, 0)...)))
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", last, id))
		}
		prev = id
	}
	return prev
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
