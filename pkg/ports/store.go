package ports

import (
	"context"
)

// SnapshotStore persists serialized documents under a name.
// Implementations must be safe for concurrent use.
type SnapshotStore interface {
	// Save stores data under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, data []byte) error

	// Load retrieves the snapshot stored under name.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored snapshot names in ascending order.
	List(ctx context.Context) ([]string, error)
}
