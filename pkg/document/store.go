package document

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/navigation"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/tree"
)

// Store is the editing session over one Document.
type Store struct {
	doc      *domain.Document
	stack    navigation.Stack
	selected string // node id, empty when nothing is selected
	edge     string // selected edge id in the current scope

	rootLabel string
	newID     func() string
	hooks     domain.Hooks
	logger    *slog.Logger
}

// Graph is the read-only projection of one scope.
type Graph struct {
	Scope domain.Scope
	Nodes []*domain.Node
	Edges []domain.Edge
}

// New creates a Store holding an empty document, positioned at the root scope.
func New(opts ...Option) *Store {
	s := &Store{
		doc:    domain.NewDocument(),
		newID:  newUUID,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stack = navigation.NewStack(s.rootLabel)
	return s
}

// Document returns the current snapshot. It must be treated as read-only.
func (s *Store) Document() *domain.Document {
	return s.doc
}

// --- Scope & navigation ---

// Stack returns the navigation stack.
func (s *Store) Stack() navigation.Stack {
	return s.stack
}

// CurrentScope returns the innermost scope of the stack.
func (s *Store) CurrentScope() domain.Scope {
	return s.stack.Current()
}

// Breadcrumbs returns the scope labels from the root down.
func (s *Store) Breadcrumbs() []string {
	scopes := s.stack.Scopes()
	labels := make([]string, len(scopes))
	for i, sc := range scopes {
		labels[i] = sc.Label
	}
	return labels
}

// CurrentGraph returns the nodes and edges of the current scope. A scope whose
// parent node no longer exists yields an empty graph.
func (s *Store) CurrentGraph() Graph {
	scope := s.stack.Current()
	nodes, edges, ok := s.graph(scope.ParentNodeID)
	if !ok {
		return Graph{Scope: scope, Nodes: []*domain.Node{}, Edges: []domain.Edge{}}
	}
	return Graph{Scope: scope, Nodes: nodes, Edges: edges}
}

// DrillInto descends into the child graph of nodeID. Unknown and Outcome
// nodes are ignored.
func (s *Store) DrillInto(nodeID string) {
	next := s.stack.DrillInto(s.doc.RootNodes, nodeID)
	if next.Len() == s.stack.Len() {
		return
	}
	s.setStack(next)
}

// NavigateTo makes the scope at index current, discarding deeper scopes.
func (s *Store) NavigateTo(index int) error {
	next, err := s.stack.NavigateTo(index)
	if err != nil {
		return err
	}
	if next.Len() != s.stack.Len() {
		s.setStack(next)
	}
	return nil
}

func (s *Store) setStack(next navigation.Stack) {
	s.stack = next
	s.selected, s.edge = "", ""
	if s.hooks.OnNavigate != nil {
		s.hooks.OnNavigate(&domain.NavigationEvent{
			Timestamp: time.Now(),
			Depth:     next.Len() - 1,
			Scope:     next.Current(),
		})
	}
}

// --- Queries ---

// FindNode searches the whole tree for id.
func (s *Store) FindNode(id string) (*domain.Node, bool) {
	return tree.Find(s.doc.RootNodes, id)
}

// EffectiveActive computes the gated activation state of a node.
func (s *Store) EffectiveActive(id string) (bool, error) {
	n, ok := s.FindNode(id)
	if !ok {
		return false, fmt.Errorf("node %q: %w", id, domain.ErrNotFound)
	}
	return activation.Effective(n), nil
}

// --- Selection ---

// Select marks a node as selected. An empty id clears the selection.
// Selection never changes the document.
func (s *Store) Select(id string) error {
	if id == "" {
		s.selected = ""
		return nil
	}
	if _, ok := s.FindNode(id); !ok {
		return fmt.Errorf("select %q: %w", id, domain.ErrNotFound)
	}
	s.selected = id
	return nil
}

// Selected returns the selected node, if any.
func (s *Store) Selected() (*domain.Node, bool) {
	if s.selected == "" {
		return nil, false
	}
	return s.FindNode(s.selected)
}

// SelectedEdge returns the selected edge of the current scope, if any.
func (s *Store) SelectedEdge() (domain.Edge, bool) {
	if s.edge == "" {
		return domain.Edge{}, false
	}
	for _, e := range s.CurrentGraph().Edges {
		if e.ID == s.edge {
			return e, true
		}
	}
	return domain.Edge{}, false
}

// --- Mutations ---

// AddNode appends a new node to the current scope. The level must be the
// current scope's level. An empty label is replaced by "New <Level> Node".
func (s *Store) AddNode(level domain.Level, pos domain.Position, label string) (*domain.Node, error) {
	scope := s.stack.Current()
	if level != scope.Level {
		return nil, fmt.Errorf("add %s node to %s scope: %w", level, scope.Level, domain.ErrLevelMismatch)
	}
	if label == "" {
		label = fmt.Sprintf("New %s Node", level.Info().Name)
	}

	n := domain.NewNode(s.newID(), level)
	n.ParentID = scope.ParentNodeID
	n.Position = pos
	n.Label = label
	if c := n.Composite(); c != nil {
		c.Nodes = []*domain.Node{}
		c.Edges = []domain.Edge{}
	}

	next, err := s.edit(scope.ParentNodeID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		return appendNode(nodes, n), edges, true
	})
	if err != nil {
		return nil, err
	}
	s.commit(next, domain.OpAddNode, level, n.ID, "")
	return n, nil
}

// UpdateNodeData merges patch into the node with the given id, wherever it
// lives in the tree.
func (s *Store) UpdateNodeData(id string, patch domain.Patch) error {
	return s.update(domain.OpUpdateNode, id, patch)
}

// ToggleActive flips the manual-active flag of a node.
func (s *Store) ToggleActive(id string) error {
	n, ok := s.FindNode(id)
	if !ok {
		return fmt.Errorf("toggle active %q: %w", id, domain.ErrNotFound)
	}
	v := !n.ManualActive
	return s.update(domain.OpToggleActive, id, domain.Patch{ManualActive: &v})
}

// ToggleRequired flips the required flag of a node.
func (s *Store) ToggleRequired(id string) error {
	n, ok := s.FindNode(id)
	if !ok {
		return fmt.Errorf("toggle required %q: %w", id, domain.ErrNotFound)
	}
	v := !n.Required
	return s.update(domain.OpToggleRequired, id, domain.Patch{Required: &v})
}

func (s *Store) update(op domain.Operation, id string, patch domain.Patch) error {
	n, ok := s.FindNode(id)
	if !ok {
		return fmt.Errorf("update node %q: %w", id, domain.ErrNotFound)
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("update node %q: %w", id, err)
	}
	roots := tree.UpdateDataAt(s.doc.RootNodes, id, patch)
	if sameNodes(roots, s.doc.RootNodes) {
		return nil
	}
	s.commit(s.withRoots(roots, s.doc.RootEdges), op, n.Level, id, "")
	return nil
}

// DeleteNode removes a node from whichever graph holds it, together with
// every edge of that graph that references it.
func (s *Store) DeleteNode(id string) error {
	loc, ok := tree.Locate(s.doc.RootNodes, id)
	if !ok {
		return fmt.Errorf("delete node %q: %w", id, domain.ErrNotFound)
	}
	next, err := s.edit(loc.ParentID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		return removeNode(nodes, id), dropIncident(edges, id), true
	})
	if err != nil {
		return err
	}
	s.forget(loc.Node)
	s.commit(next, domain.OpDeleteNode, loc.Node.Level, id, "")
	return nil
}

// Connect adds an edge between two nodes of the current scope. When an edge
// with the same endpoints already exists it is returned and nothing changes.
func (s *Store) Connect(source, target string) (domain.Edge, error) {
	scope := s.stack.Current()
	var edge domain.Edge
	next, err := s.edit(scope.ParentNodeID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		for _, e := range edges {
			if e.Source == source && e.Target == target {
				edge = e
				return nodes, edges, false
			}
		}
		edge = domain.Edge{
			ID:       "e-" + s.newID(),
			Source:   source,
			Target:   target,
			Level:    scope.Level,
			Animated: true,
		}
		return nodes, appendEdge(edges, edge), true
	})
	if err != nil {
		return domain.Edge{}, err
	}
	if next != s.doc {
		s.commit(next, domain.OpConnect, scope.Level, "", edge.ID)
	}
	return edge, nil
}

// DeleteEdge removes an edge from the current scope.
func (s *Store) DeleteEdge(id string) error {
	scope := s.stack.Current()
	found := false
	next, err := s.edit(scope.ParentNodeID, func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool) {
		out := removeEdge(edges, id)
		found = len(out) != len(edges)
		return nodes, out, found
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("delete edge %q: %w", id, domain.ErrNotFound)
	}
	if s.edge == id {
		s.edge = ""
	}
	s.commit(next, domain.OpDeleteEdge, scope.Level, "", id)
	return nil
}

// --- Import / export ---

// Export serializes the current document.
func (s *Store) Export() ([]byte, error) {
	return schema.Encode(s.doc)
}

// Import replaces the document with the decoded payload and resets the
// navigation stack to the root scope. On failure the error is a
// *domain.ParseError and the session is left untouched.
func (s *Store) Import(data []byte) error {
	doc, err := schema.Decode(data)
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		return err
	}
	s.commit(doc, domain.OpImport, "", "", "")
	s.setStack(s.stack.Reset())
	return nil
}

// --- Internals ---

type graphEdit func(nodes []*domain.Node, edges []domain.Edge) ([]*domain.Node, []domain.Edge, bool)

// graph returns the lists owned by parentID, the root lists for "".
func (s *Store) graph(parentID string) ([]*domain.Node, []domain.Edge, bool) {
	if parentID == "" {
		return s.doc.RootNodes, s.doc.RootEdges, true
	}
	n, ok := tree.Find(s.doc.RootNodes, parentID)
	if !ok || n.Composite() == nil {
		return nil, nil, false
	}
	return n.Children(), n.ChildEdges(), true
}

// edit rewrites the graph owned by parentID and returns the resulting
// document. When fn reports no change the current document is returned.
func (s *Store) edit(parentID string, fn graphEdit) (*domain.Document, error) {
	if parentID == "" {
		nodes, edges, changed := fn(s.doc.RootNodes, s.doc.RootEdges)
		if !changed {
			return s.doc, nil
		}
		return s.withRoots(nodes, edges), nil
	}

	if _, _, ok := s.graph(parentID); !ok {
		return nil, fmt.Errorf("scope %q: %w", parentID, domain.ErrNotFound)
	}
	changed := false
	roots := tree.Replace(s.doc.RootNodes, parentID, func(n *domain.Node) *domain.Node {
		c := n.Composite()
		nodes, edges, ok := fn(c.Nodes, c.Edges)
		if !ok {
			return n
		}
		changed = true
		cp := n.Clone()
		cp.Composite().Nodes = nodes
		cp.Composite().Edges = edges
		return cp
	})
	if !changed {
		return s.doc, nil
	}
	return s.withRoots(roots, s.doc.RootEdges), nil
}

func (s *Store) withRoots(nodes []*domain.Node, edges []domain.Edge) *domain.Document {
	return &domain.Document{RootNodes: nodes, RootEdges: edges, Version: s.doc.Version}
}

func (s *Store) commit(next *domain.Document, op domain.Operation, level domain.Level, nodeID, edgeID string) {
	prev := s.doc
	s.doc = next
	s.logger.Debug("document changed", "op", op, "level", level, "node", nodeID, "edge", edgeID)
	if s.hooks.OnChange != nil {
		s.hooks.OnChange(&domain.ChangeEvent{
			Timestamp: time.Now(),
			Op:        op,
			Level:     level,
			NodeID:    nodeID,
			EdgeID:    edgeID,
			Previous:  prev,
			Current:   next,
		})
	}
}

// forget clears the selection when it points into the removed subtree.
func (s *Store) forget(removed *domain.Node) {
	if s.selected == "" {
		return
	}
	tree.Walk([]*domain.Node{removed}, func(n *domain.Node, _ int) bool {
		if n.ID == s.selected {
			s.selected = ""
			return false
		}
		return true
	})
}

func appendNode(nodes []*domain.Node, n *domain.Node) []*domain.Node {
	out := make([]*domain.Node, len(nodes), len(nodes)+1)
	copy(out, nodes)
	return append(out, n)
}

func appendEdge(edges []domain.Edge, e domain.Edge) []domain.Edge {
	out := make([]domain.Edge, len(edges), len(edges)+1)
	copy(out, edges)
	return append(out, e)
}

func removeNode(nodes []*domain.Node, id string) []*domain.Node {
	out := make([]*domain.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func removeEdge(edges []domain.Edge, id string) []domain.Edge {
	out := make([]domain.Edge, 0, len(edges))
	for _, e := range edges {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func dropIncident(edges []domain.Edge, nodeID string) []domain.Edge {
	out := make([]domain.Edge, 0, len(edges))
	for _, e := range edges {
		if !e.Touches(nodeID) {
			out = append(out, e)
		}
	}
	return out
}

func sameNodes(a, b []*domain.Node) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
