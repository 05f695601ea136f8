package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/hyperwalk/internal/walker"
)

// GraphOverlay describes how the described resource was reached.
type GraphOverlay struct {
	StartURI string
	Trail    []string
}

// GenerateMermaid produces a Mermaid flowchart of the relations a resource offers.
// It applies semantic styling:
// - Start: ((Circle))
// - Embedded: [[Subroutine]]
// - Templated: [/Parallelogram/]
// - Default: [Rectangle]
// When an overlay is given the followed trail is drawn first and the
// relations branch from its last hop.
func GenerateMermaid(rels []walker.Relation, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	current := "current"
	var visited []string
	if overlay != nil {
		start := overlay.StartURI
		if start == "" {
			start = "start"
		}
		sb.WriteString(fmt.Sprintf("    n0((\"%s\"))\n", escapeLabel(start)))
		visited = append(visited, "n0")
		current = "n0"
		for i, rel := range overlay.Trail {
			id := fmt.Sprintf("n%d", i+1)
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escapeLabel(rel)))
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", current, escapeLabel(rel), id))
			visited = append(visited, id)
			current = id
		}
	} else {
		sb.WriteString("    current((\"resource\"))\n")
	}

	for _, r := range rels {
		id := "rel_" + sanitizeMermaidID(r.Name)
		if r.Embedded {
			id = "emb_" + sanitizeMermaidID(r.Name)
		}

		opener, closer := "[", "]"
		switch {
		case r.Embedded:
			opener, closer = "[[", "]]"
		case r.Templated:
			opener, closer = "[/", "/]"
		}

		label := escapeLabel(r.Name)
		if r.Href != "" {
			label += " <br/> " + escapeLabel(r.Href)
		}
		if r.Count > 1 {
			label += fmt.Sprintf(" <br/> x%d", r.Count)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		arrow := "-->"
		if r.Embedded {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", current, arrow, id))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range visited[:len(visited)-1] {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", current))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(
		".", "_", "-", "_", "/", "_", "\\", "_",
		"$", "_", "[", "_", "]", "_", ":", "_", " ", "_",
	)
	return r.Replace(id)
}
