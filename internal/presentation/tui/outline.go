package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/tree"
)

// Outline renders the document as a nested markdown list annotated with
// effective states:
//
//	- ✅ **Receiving** `AND`
//	  - ⛔ **Scan** _required_ (blocked)
func Outline(title string, doc *domain.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(doc.RootNodes) == 0 {
		sb.WriteString("_empty document_\n")
		return sb.String()
	}

	tree.Walk(doc.RootNodes, func(n *domain.Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(icon(n))
		fmt.Fprintf(&sb, " **%s**", label(n))
		if len(n.Children()) > 0 {
			fmt.Fprintf(&sb, " `%s`", n.Gate())
		}
		if n.Required {
			sb.WriteString(" _required_")
		}
		if o := n.Outcome(); o != nil && o.Status != domain.StatusDefault && o.Status != "" {
			fmt.Fprintf(&sb, " [%s]", o.Status)
		}
		if activation.Blocked(n) {
			sb.WriteString(" (blocked)")
		}
		sb.WriteString("\n")
		return true
	})

	fmt.Fprintf(&sb, "\n%d nodes\n", tree.Count(doc.RootNodes))
	return sb.String()
}

func icon(n *domain.Node) string {
	switch {
	case !n.ManualActive:
		return "⏸️"
	case !activation.Effective(n):
		return "⛔"
	}
	return "✅"
}

func label(n *domain.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
