package dsl

import (
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node and its child graph.
type NodeBuilder struct {
	node     *domain.Node
	parent   *NodeBuilder
	children []*NodeBuilder
	edges    []domain.Edge
	builder  *Builder
}

// Describe sets the free-text description.
func (n *NodeBuilder) Describe(description string) *NodeBuilder {
	n.node.Description = description
	return n
}

// Color overrides the level's default color.
func (n *NodeBuilder) Color(color string) *NodeBuilder {
	n.node.Color = color
	return n
}

// At sets the canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Required marks the node as counted by its parent's gate.
func (n *NodeBuilder) Required() *NodeBuilder {
	n.node.Required = true
	return n
}

// Inactive switches the node's manual flag off.
func (n *NodeBuilder) Inactive() *NodeBuilder {
	n.node.ManualActive = false
	return n
}

// Gate sets the gate of a Process or Task node.
func (n *NodeBuilder) Gate(g domain.GateType) *NodeBuilder {
	if c := n.node.Composite(); c != nil {
		c.Gate = g
	} else {
		n.fail("gate on outcome node %q", n.node.ID)
	}
	return n
}

// Note sets the logic note of an Outcome node.
func (n *NodeBuilder) Note(note string) *NodeBuilder {
	if o := n.node.Outcome(); o != nil {
		o.LogicNote = note
	} else {
		n.fail("logic note on composite node %q", n.node.ID)
	}
	return n
}

// Status sets the status of an Outcome node.
func (n *NodeBuilder) Status(s domain.Status) *NodeBuilder {
	if o := n.node.Outcome(); o != nil {
		o.Status = s
	} else {
		n.fail("status on composite node %q", n.node.ID)
	}
	return n
}

// Child adds a node one level below n and returns its builder.
func (n *NodeBuilder) Child(id, label string) *NodeBuilder {
	level, ok := n.node.Level.Next()
	if !ok {
		n.fail("outcome node %q cannot have children", n.node.ID)
		level = n.node.Level
	}
	child := n.builder.newNode(id, level, label, n.node.ID)
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Connect adds an edge between two children of n.
func (n *NodeBuilder) Connect(source, target string) *NodeBuilder {
	level, _ := n.node.Level.Next()
	n.edges = append(n.edges, newEdge(source, target, level))
	return n
}

// Chain connects the children of n in insertion order.
func (n *NodeBuilder) Chain() *NodeBuilder {
	for i := 1; i < len(n.children); i++ {
		n.Connect(n.children[i-1].node.ID, n.children[i].node.ID)
	}
	return n
}

// Up returns the builder of the parent node, or n itself at the root.
func (n *NodeBuilder) Up() *NodeBuilder {
	if n.parent == nil {
		return n
	}
	return n.parent
}

// Done returns the document builder.
func (n *NodeBuilder) Done() *Builder {
	return n.builder
}

func (n *NodeBuilder) fail(format string, args ...any) {
	n.builder.errs = append(n.builder.errs, fmt.Errorf(format, args...))
}

func (n *NodeBuilder) build() *domain.Node {
	out := n.node.Clone()
	if c := out.Composite(); c != nil {
		c.Nodes = buildAll(n.children)
		c.Edges = append([]domain.Edge{}, n.edges...)
	}
	return out
}
