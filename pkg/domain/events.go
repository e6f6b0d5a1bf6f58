package domain

import "time"

// Operation names the mutation that produced a ChangeEvent.
type Operation string

const (
	OpAddNode        Operation = "add_node"
	OpUpdateNode     Operation = "update_node"
	OpDeleteNode     Operation = "delete_node"
	OpConnect        Operation = "connect"
	OpDeleteEdge     Operation = "delete_edge"
	OpNodeChanges    Operation = "node_changes"
	OpEdgeChanges    Operation = "edge_changes"
	OpImport         Operation = "import"
	OpToggleActive   Operation = "toggle_active"
	OpToggleRequired Operation = "toggle_required"
)

// ChangeEvent describes a successful mutation of the document.
type ChangeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Operation `json:"op"`
	Level     Level     `json:"level,omitempty"`
	NodeID    string    `json:"node_id,omitempty"`
	EdgeID    string    `json:"edge_id,omitempty"`
	Previous  *Document `json:"-"`
	Current   *Document `json:"-"`
}

// NavigationEvent describes a change of the navigation stack.
type NavigationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Depth     int       `json:"depth"`
	Scope     Scope     `json:"scope"`
}

// Hooks defines callbacks for store observability.
// Any of them may be nil.
type Hooks struct {
	OnChange   func(*ChangeEvent)
	OnNavigate func(*NavigationEvent)
}

// Scope is one entry of the navigation stack.
type Scope struct {
	Level        Level  `json:"level"`
	ParentNodeID string `json:"parentNodeId,omitempty"` // empty for the root scope
	Label        string `json:"label"`
}

// Root reports whether s is the root scope.
func (s Scope) Root() bool {
	return s.ParentNodeID == ""
}
