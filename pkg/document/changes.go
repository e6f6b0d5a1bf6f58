package document

import (
	"github.com/aretw0/dyeflow/pkg/domain"
)

// ChangeKind names a structural delta raised by a rendering layer.
type ChangeKind string

const (
	ChangePosition ChangeKind = "position"
	ChangeRemove   ChangeKind = "remove"
	ChangeSelect   ChangeKind = "select"
)

// NodeChange is one entry of a node change list.
type NodeChange struct {
	ID       string           `json:"id"`
	Kind     ChangeKind       `json:"type"`
	Position *domain.Position `json:"position,omitempty"`
	Selected bool             `json:"selected,omitempty"`
}

// EdgeChange is one entry of an edge change list.
type EdgeChange struct {
	ID       string     `json:"id"`
	Kind     ChangeKind `json:"type"`
	Selected bool       `json:"selected,omitempty"`
}

// ApplyNodeChanges folds a change list into the current scope, in order.
// Entries naming ids absent from the scope are skipped. Removing a node also
// removes the scope's edges that reference it. The whole list publishes at
// most one new document.
func (s *Store) ApplyNodeChanges(changes []NodeChange) error {
	scope := s.stack.Current()
	var removed []*domain.Node
	next, err := s.edit(scope.ParentNodeID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		changed := false
		for _, ch := range changes {
			i := indexOfNode(nodes, ch.ID)
			if i < 0 {
				continue
			}
			switch ch.Kind {
			case ChangePosition:
				if ch.Position == nil || nodes[i].Position == *ch.Position {
					continue
				}
				cp := nodes[i].Clone()
				cp.Position = *ch.Position
				nodes = replaceNode(nodes, i, cp)
				changed = true
			case ChangeRemove:
				removed = append(removed, nodes[i])
				nodes = removeNode(nodes, ch.ID)
				edges = dropIncident(edges, ch.ID)
				changed = true
			case ChangeSelect:
				if ch.Selected {
					s.selected = ch.ID
				} else if s.selected == ch.ID {
					s.selected = ""
				}
			}
		}
		return nodes, edges, changed
	})
	if err != nil {
		return err
	}
	for _, n := range removed {
		s.forget(n)
	}
	if next != s.doc {
		s.commit(next, domain.OpNodeChanges, scope.Level, "", "")
	}
	return nil
}

// ApplyEdgeChanges folds an edge change list into the current scope, in order.
// Entries naming unknown ids are skipped.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) error {
	scope := s.stack.Current()
	next, err := s.edit(scope.ParentNodeID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		changed := false
		for _, ch := range changes {
			if !hasEdge(edges, ch.ID) {
				continue
			}
			switch ch.Kind {
			case ChangeRemove:
				edges = removeEdge(edges, ch.ID)
				if s.edge == ch.ID {
					s.edge = ""
				}
				changed = true
			case ChangeSelect:
				if ch.Selected {
					s.edge = ch.ID
				} else if s.edge == ch.ID {
					s.edge = ""
				}
			}
		}
		return nodes, edges, changed
	})
	if err != nil {
		return err
	}
	if next != s.doc {
		s.commit(next, domain.OpEdgeChanges, scope.Level, "", "")
	}
	return nil
}

func indexOfNode(nodes []*domain.Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func hasEdge(edges []domain.Edge, id string) bool {
	for _, e := range edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

func replaceNode(nodes []*domain.Node, i int, n *domain.Node) []*domain.Node {
	out := make([]*domain.Node, len(nodes))
	copy(out, nodes)
	out[i] = n
	return out
}
