// Package navigation implements the stack of scopes a user descends through.
//
// A Stack is a value: operations return a new stack and never modify the
// receiver. The first entry is always the root scope.
package navigation

import (
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/tree"
)

// DefaultRootLabel names the root scope when no label is configured.
const DefaultRootLabel = "Warehouse"

// Stack is an ordered, non-empty list of visited scopes.
type Stack struct {
	scopes []domain.Scope
}

// NewStack returns a stack holding only the root scope.
func NewStack(rootLabel string) Stack {
	if rootLabel == "" {
		rootLabel = DefaultRootLabel
	}
	return Stack{scopes: []domain.Scope{{Level: domain.LevelProcess, Label: rootLabel}}}
}

// Len returns the number of scopes, always at least one.
func (s Stack) Len() int {
	s = s.normalize()
	return len(s.scopes)
}

// Current returns the innermost scope.
func (s Stack) Current() domain.Scope {
	s = s.normalize()
	return s.scopes[len(s.scopes)-1]
}

// Root returns the root scope.
func (s Stack) Root() domain.Scope {
	s = s.normalize()
	return s.scopes[0]
}

// Scopes returns a copy of the scopes from the root down.
func (s Stack) Scopes() []domain.Scope {
	s = s.normalize()
	return append([]domain.Scope(nil), s.scopes...)
}

// DrillInto descends into the child graph of nodeID.
// Unknown nodes and Outcome nodes leave the stack unchanged.
func (s Stack) DrillInto(roots []*domain.Node, nodeID string) Stack {
	s = s.normalize()
	n, ok := tree.Find(roots, nodeID)
	if !ok {
		return s
	}
	next, ok := n.Level.Next()
	if !ok {
		return s
	}
	scopes := make([]domain.Scope, len(s.scopes), len(s.scopes)+1)
	copy(scopes, s.scopes)
	scopes = append(scopes, domain.Scope{
		Level:        next,
		ParentNodeID: nodeID,
		Label:        n.Label,
	})
	return Stack{scopes: scopes}
}

// NavigateTo truncates the stack so that index becomes the current scope.
// The stack is returned unchanged along with ErrScopeIndex when index is out
// of range.
func (s Stack) NavigateTo(index int) (Stack, error) {
	s = s.normalize()
	if index < 0 || index >= len(s.scopes) {
		return s, fmt.Errorf("navigate to %d of %d: %w", index, len(s.scopes), domain.ErrScopeIndex)
	}
	if index == len(s.scopes)-1 {
		return s, nil
	}
	return Stack{scopes: append([]domain.Scope(nil), s.scopes[:index+1]...)}, nil
}

// Reset returns a stack holding only the root scope of s.
func (s Stack) Reset() Stack {
	s = s.normalize()
	return Stack{scopes: s.scopes[:1:1]}
}

// Equal reports whether two stacks hold the same scopes.
func (s Stack) Equal(other Stack) bool {
	a, b := s.normalize().scopes, other.normalize().scopes
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// normalize gives the zero Stack a root scope.
func (s Stack) normalize() Stack {
	if len(s.scopes) == 0 {
		return NewStack("")
	}
	return s
}
