// Package activation computes the effective active state of nodes.
//
// The effective state is derived on every call from the manual flags and the
// required children's own effective states; nothing is cached, so edits deep
// in the tree are reflected immediately in every ancestor.
package activation

import "github.com/aretw0/dyeflow/pkg/domain"

// Effective reports whether n is effectively active.
//
// A node switched off manually is inactive. A node with no required children
// is active. Otherwise its gate decides over the required children: AND needs
// all of them active, OR needs one, NAND needs at least one inactive. Unknown
// gates fail open.
func Effective(n *domain.Node) bool {
	if !n.ManualActive {
		return false
	}
	c := n.Composite()
	if c == nil || len(c.Nodes) == 0 {
		return true
	}

	var required []*domain.Node
	for _, child := range c.Nodes {
		if child.Required {
			required = append(required, child)
		}
	}
	if len(required) == 0 {
		return true
	}

	switch c.Gate {
	case domain.GateAND:
		return all(required)
	case domain.GateOR:
		return anyActive(required)
	case domain.GateNAND:
		return !all(required)
	default:
		return true
	}
}

// Blocked reports whether n is switched on but held inactive by its gate.
func Blocked(n *domain.Node) bool {
	return n.ManualActive && !Effective(n)
}

func all(nodes []*domain.Node) bool {
	for _, n := range nodes {
		if !Effective(n) {
			return false
		}
	}
	return true
}

func anyActive(nodes []*domain.Node) bool {
	for _, n := range nodes {
		if Effective(n) {
			return true
		}
	}
	return false
}
