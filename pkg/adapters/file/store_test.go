package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dyeflow/pkg/adapters/file"
	"github.com/aretw0/dyeflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	store := file.New(dir)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "missing directory lists nothing")

	require.NoError(t, store.Save(ctx, "warehouse", []byte("{}")))
	_, err = os.Stat(filepath.Join(dir, "warehouse.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_RejectsBadNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, store.Save(ctx, name, []byte("{}")), name)
		_, err := store.Load(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".dyeflow", "snapshots"), file.New("").BasePath)
}
