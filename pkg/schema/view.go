package schema

import (
	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
)

// View is the JSON form of one scope's graph as served to rendering clients.
// Each node carries its computed activation next to the stored fields.
type View struct {
	Scope domain.Scope `json:"scope"`
	Nodes []ViewNode   `json:"nodes"`
	Edges []ViewEdge   `json:"edges"`
}

// ViewNode is a node in exchange form plus its derived display flags.
type ViewNode struct {
	wireNode
	EffectiveActive bool `json:"effectiveActive"`
	Blocked         bool `json:"blocked"`
}

// ViewEdge is an edge in exchange form.
type ViewEdge struct {
	wireEdge
}

// NewView renders nodes and edges of scope.
func NewView(scope domain.Scope, nodes []*domain.Node, edges []domain.Edge) View {
	v := View{
		Scope: scope,
		Nodes: make([]ViewNode, 0, len(nodes)),
		Edges: make([]ViewEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		v.Nodes = append(v.Nodes, NewViewNode(n))
	}
	for _, e := range encodeEdges(edges) {
		v.Edges = append(v.Edges, ViewEdge{e})
	}
	return v
}

// NewViewNode renders a single node with its subtree.
func NewViewNode(n *domain.Node) ViewNode {
	return ViewNode{
		wireNode:        encodeNodes([]*domain.Node{n})[0],
		EffectiveActive: activation.Effective(n),
		Blocked:         activation.Blocked(n),
	}
}

// NewViewEdge renders a single edge.
func NewViewEdge(e domain.Edge) ViewEdge {
	return ViewEdge{encodeEdges([]domain.Edge{e})[0]}
}
