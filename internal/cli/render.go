package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/hyperwalk/internal/presentation/tui"
	"github.com/aretw0/hyperwalk/internal/walker"
)

// RelationTable renders rels as a markdown table headed by uri.
// With pretty set the markdown is rendered for the terminal.
func RelationTable(uri string, rels []walker.Relation, pretty bool) (string, error) {
	var sb strings.Builder
	if uri != "" {
		fmt.Fprintf(&sb, "## %s\n\n", uri)
	}
	if len(rels) == 0 {
		sb.WriteString("_No relations._\n")
	} else {
		sb.WriteString("| Relation | Href | Embedded | Templated | Count |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, r := range rels {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d |\n",
				escapeCell(r.Name), escapeCell(r.Href), mark(r.Embedded), mark(r.Templated), r.Count)
		}
	}

	md := sb.String()
	if !pretty {
		return md, nil
	}
	render, err := tui.NewRenderer(120)
	if err != nil {
		return "", err
	}
	return render(md)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
