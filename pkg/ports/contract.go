package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")
	payload := []byte(`{"rootNodes":[],"rootEdges":[],"version":1}`)

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, payload))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.JSONEq(t, string(payload), string(loaded))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		next := []byte(`{"rootNodes":[],"rootEdges":[],"version":1,"x":1}`)
		require.NoError(t, store.Save(ctx, name, next))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, next, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, payload))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		a, b := name+"-a", name+"-b"
		require.NoError(t, store.Save(ctx, b, payload))
		require.NoError(t, store.Save(ctx, a, payload))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsIncreasing(t, names)
	})
}
