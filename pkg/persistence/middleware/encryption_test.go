package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/dyeflow/pkg/adapters/memory"
	"github.com/aretw0/dyeflow/pkg/persistence/middleware"
	"github.com/aretw0/dyeflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.SnapshotStore, cfg middleware.EncryptionConfig) ports.SnapshotStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	doc := []byte(`{"rootNodes":[{"id":"secret-process"}],"rootEdges":[],"version":1}`)
	require.NoError(t, secure.Save(ctx, "plan", doc))

	stored, err := underlying.Load(ctx, "plan")
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "secret-process")
	assert.Contains(t, string(stored), "__encrypted__")

	loaded, err := secure.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	require.NoError(t, encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).Save(ctx, "plan", []byte("v1")))

	rotated := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	data, err := rotated.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	_, err = encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey}).Load(ctx, "plan")
	assert.Error(t, err, "without the old key the snapshot cannot be read")
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "plain", []byte(`{"rootNodes":[]}`)))

	_, err := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)}).Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)
}
