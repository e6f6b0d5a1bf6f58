package domain

// Position is the canvas location of a node. The core never interprets it.
type Position struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Node is a vertex of one scope's graph.
//
// Nodes reachable from a published Document are treated as immutable: edits
// produce copies along the path from the root, leaving previous snapshots
// intact.
type Node struct {
	ID          string
	Level       Level
	ParentID    string // empty for root-level nodes
	Position    Position
	Label       string
	Description string
	Color       string

	// ManualActive is the switch set by the user; see activation.Effective
	// for the computed state.
	ManualActive bool

	// Required marks the node as counted by its parent's gate.
	Required bool

	// Body is *Composite for Process/Task nodes and *Outcome for leaves.
	Body Body
}

// Body is the level-specific part of a node.
type Body interface {
	isBody()
}

// Composite is the body of a node that owns a child graph one level below.
type Composite struct {
	Gate  GateType
	Nodes []*Node
	Edges []Edge
}

// Outcome is the body of a leaf node.
type Outcome struct {
	LogicNote string
	Status    Status
}

func (*Composite) isBody() {}
func (*Outcome) isBody()   {}

// NewNode returns a node of the given level with default flags and an empty
// body matching the level.
func NewNode(id string, level Level) *Node {
	n := &Node{
		ID:           id,
		Level:        level,
		ManualActive: true,
		Color:        level.Info().Color,
	}
	if level.Composite() {
		n.Body = &Composite{Gate: GateAND}
	} else {
		n.Body = &Outcome{Status: StatusDefault}
	}
	return n
}

// Composite returns the node's composite body, or nil for leaves.
func (n *Node) Composite() *Composite {
	c, _ := n.Body.(*Composite)
	return c
}

// Outcome returns the node's leaf body, or nil for composite nodes.
func (n *Node) Outcome() *Outcome {
	o, _ := n.Body.(*Outcome)
	return o
}

// Children returns the child nodes. Leaves have none.
func (n *Node) Children() []*Node {
	if c := n.Composite(); c != nil {
		return c.Nodes
	}
	return nil
}

// ChildEdges returns the edges of the child graph. Leaves have none.
func (n *Node) ChildEdges() []Edge {
	if c := n.Composite(); c != nil {
		return c.Edges
	}
	return nil
}

// Gate returns the gate of a composite node; leaves report the empty gate.
func (n *Node) Gate() GateType {
	if c := n.Composite(); c != nil {
		return c.Gate
	}
	return ""
}

// Clone returns a shallow copy of n with its own body value. Child slices are
// shared with the original and must be replaced, not mutated.
func (n *Node) Clone() *Node {
	cp := *n
	switch b := n.Body.(type) {
	case *Composite:
		body := *b
		cp.Body = &body
	case *Outcome:
		body := *b
		cp.Body = &body
	}
	return &cp
}

// Edge connects two nodes of the same scope.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Level    Level
	Animated bool
	Label    string
}

// Touches reports whether the edge has nodeID as source or target.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// CurrentVersion is the version tag written on export.
const CurrentVersion = 1

// Document is the whole hierarchy: the root Process graph and, nested in the
// node bodies, every descendant graph.
type Document struct {
	RootNodes []*Node
	RootEdges []Edge
	Version   int
}

// NewDocument returns an empty document at the current version.
func NewDocument() *Document {
	return &Document{
		RootNodes: []*Node{},
		RootEdges: []Edge{},
		Version:   CurrentVersion,
	}
}
