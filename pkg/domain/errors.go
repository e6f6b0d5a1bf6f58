package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a node or edge id is absent from the tree,
// or when the current scope's parent node no longer exists.
var ErrNotFound = errors.New("not found")

// ErrLevelMismatch is returned when a node is added to a scope of another level.
var ErrLevelMismatch = errors.New("level does not match current scope")

// ErrScopeIndex is returned when navigating to a position outside the stack.
var ErrScopeIndex = errors.New("scope index out of range")

// ErrSnapshotNotFound is returned when a snapshot name cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ParseError reports an import payload that is not a valid document.
// The document held by the store is left untouched when it is returned.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
