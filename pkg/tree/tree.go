// Package tree locates and rewrites nodes anywhere in a document hierarchy.
//
// Every rewrite is copy-on-write: the edited node and all of its ancestors are
// copied, unrelated subtrees are shared with the input, and the input slices
// are never modified. When nothing changes the input slice is returned as is,
// so callers can detect no-ops by identity.
package tree

import "github.com/aretw0/dyeflow/pkg/domain"

// Find searches the whole tree breadth-first for the node with the given id.
func Find(roots []*domain.Node, id string) (*domain.Node, bool) {
	queue := append([]*domain.Node(nil), roots...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.ID == id {
			return n, true
		}
		queue = append(queue, n.Children()...)
	}
	return nil, false
}

// Location identifies the list that holds a node.
type Location struct {
	// ParentID is the id of the owning node, empty for the root list.
	ParentID string
	Index    int
	Node     *domain.Node
}

// Locate finds the node with the given id and reports which list holds it.
func Locate(roots []*domain.Node, id string) (Location, bool) {
	type item struct {
		parent string
		list   []*domain.Node
	}
	queue := []item{{list: roots}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		for i, n := range it.list {
			if n.ID == id {
				return Location{ParentID: it.parent, Index: i, Node: n}, true
			}
			if children := n.Children(); len(children) > 0 {
				queue = append(queue, item{parent: n.ID, list: children})
			}
		}
	}
	return Location{}, false
}

// Replace rewrites the node with the given id using fn and returns the new
// root list. fn receives the current node and must not modify it; returning the
// same pointer means no change. A missing id yields roots unchanged.
func Replace(roots []*domain.Node, id string, fn func(*domain.Node) *domain.Node) []*domain.Node {
	out, _ := replace(roots, id, fn)
	return out
}

func replace(nodes []*domain.Node, id string, fn func(*domain.Node) *domain.Node) ([]*domain.Node, bool) {
	for i, n := range nodes {
		if n.ID != id {
			continue
		}
		updated := fn(n)
		if updated == n {
			return nodes, true
		}
		return with(nodes, i, updated), true
	}
	for i, n := range nodes {
		c := n.Composite()
		if c == nil || len(c.Nodes) == 0 {
			continue
		}
		children, found := replace(c.Nodes, id, fn)
		if !found {
			continue
		}
		if same(children, c.Nodes) {
			return nodes, true
		}
		cp := n.Clone()
		cp.Composite().Nodes = children
		return with(nodes, i, cp), true
	}
	return nodes, false
}

// ApplyNodes replaces the child node list of targetID with transform(current).
// Leaves and missing targets leave the tree unchanged.
func ApplyNodes(roots []*domain.Node, targetID string, transform func([]*domain.Node) []*domain.Node) []*domain.Node {
	return Replace(roots, targetID, func(n *domain.Node) *domain.Node {
		c := n.Composite()
		if c == nil {
			return n
		}
		next := transform(c.Nodes)
		if same(next, c.Nodes) {
			return n
		}
		cp := n.Clone()
		cp.Composite().Nodes = next
		return cp
	})
}

// ApplyEdges replaces the child edge list of targetID with transform(current).
// Leaves and missing targets leave the tree unchanged.
func ApplyEdges(roots []*domain.Node, targetID string, transform func([]domain.Edge) []domain.Edge) []*domain.Node {
	return Replace(roots, targetID, func(n *domain.Node) *domain.Node {
		c := n.Composite()
		if c == nil {
			return n
		}
		next := transform(c.Edges)
		if sameEdges(next, c.Edges) {
			return n
		}
		cp := n.Clone()
		cp.Composite().Edges = next
		return cp
	})
}

// UpdateDataAt merges patch into the data fields of the node with id targetID.
func UpdateDataAt(roots []*domain.Node, targetID string, patch domain.Patch) []*domain.Node {
	if patch.Empty() {
		return roots
	}
	return Replace(roots, targetID, patch.Apply)
}

// Walk visits every node depth-first in list order. depth is 0 for roots.
// Returning false from fn skips the node's children.
func Walk(roots []*domain.Node, fn func(n *domain.Node, depth int) bool) {
	walk(roots, 0, fn)
}

func walk(nodes []*domain.Node, depth int, fn func(*domain.Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children(), depth+1, fn)
		}
	}
}

// Count returns the number of nodes in the tree.
func Count(roots []*domain.Node) int {
	total := 0
	Walk(roots, func(*domain.Node, int) bool {
		total++
		return true
	})
	return total
}

func with(nodes []*domain.Node, i int, n *domain.Node) []*domain.Node {
	out := make([]*domain.Node, len(nodes))
	copy(out, nodes)
	out[i] = n
	return out
}

func same(a, b []*domain.Node) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func sameEdges(a, b []domain.Edge) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
