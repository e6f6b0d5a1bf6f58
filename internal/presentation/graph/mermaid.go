package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
)

// GraphOverlay contains session state to highlight on the graph.
type GraphOverlay struct {
	Selected string
}

// GenerateMermaid produces a Mermaid flowchart of one scope.
// It applies semantic styling:
// - Process: [Rectangle]
// - Task: (Rounded)
// - Outcome: {{Hexagon}}
// Nodes that are not effectively active get the "inactive" class.
func GenerateMermaid(nodes []*domain.Node, edges []domain.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var inactive []string
	for _, n := range nodes {
		writeNode(&sb, "    ", n)
		if !activation.Effective(n) {
			inactive = append(inactive, n.ID)
		}
	}
	writeEdges(&sb, "    ", edges)
	writeStyles(&sb, inactive, overlay)
	return sb.String()
}

// GenerateDocument renders the whole hierarchy. Nodes that own children
// become subgraphs holding their child graph.
func GenerateDocument(doc *domain.Document, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var inactive []string
	var walk func(nodes []*domain.Node, edges []domain.Edge, indent string)
	walk = func(nodes []*domain.Node, edges []domain.Edge, indent string) {
		for _, n := range nodes {
			if !activation.Effective(n) {
				inactive = append(inactive, n.ID)
			}
			if len(n.Children()) == 0 {
				writeNode(&sb, indent, n)
				continue
			}
			fmt.Fprintf(&sb, "%ssubgraph %s[\"%s\"]\n", indent, sanitizeMermaidID(n.ID), nodeLabel(n))
			walk(n.Children(), n.ChildEdges(), indent+"    ")
			fmt.Fprintf(&sb, "%send\n", indent)
		}
		writeEdges(&sb, indent, edges)
	}
	walk(doc.RootNodes, doc.RootEdges, "    ")

	writeStyles(&sb, inactive, overlay)
	return sb.String()
}

func writeNode(sb *strings.Builder, indent string, n *domain.Node) {
	opener, closer := "[", "]"
	switch n.Level {
	case domain.LevelTask:
		opener, closer = "(", ")"
	case domain.LevelOutcome:
		opener, closer = "{{", "}}"
	}
	fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", indent, sanitizeMermaidID(n.ID), opener, nodeLabel(n), closer)
}

func writeEdges(sb *strings.Builder, indent string, edges []domain.Edge) {
	for _, e := range edges {
		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(e.Label))
		}
		fmt.Fprintf(sb, "%s%s %s %s\n", indent, sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}
}

func writeStyles(sb *strings.Builder, inactive []string, overlay *GraphOverlay) {
	if len(inactive) == 0 && (overlay == nil || overlay.Selected == "") {
		return
	}
	sb.WriteString("\n    %% Styles\n")
	if len(inactive) > 0 {
		sb.WriteString("    classDef inactive fill:#f3f4f6,stroke:#9ca3af,stroke-dasharray:5 5,color:#6b7280;\n")
		for _, id := range inactive {
			fmt.Fprintf(sb, "    class %s inactive;\n", sanitizeMermaidID(id))
		}
	}
	if overlay != nil && overlay.Selected != "" {
		// Black text keeps contrast on the light fill in both themes.
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(sb, "    class %s selected;\n", sanitizeMermaidID(overlay.Selected))
	}
}

// nodeLabel shows the label, a required marker and the gate of nodes whose
// gate has something to combine.
func nodeLabel(n *domain.Node) string {
	label := escape(n.Label)
	if label == "" {
		label = escape(n.ID)
	}
	if n.Required {
		label += " *"
	}
	if len(n.Children()) > 0 {
		label += " <br/> " + string(n.Gate())
	}
	return label
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
