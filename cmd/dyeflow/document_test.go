package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument(t *testing.T) {
	doc, err := readDocument("")
	require.NoError(t, err)
	assert.Len(t, doc.RootNodes, 6)

	dir := t.TempDir()
	data, err := schema.Encode(seed.Warehouse())
	require.NoError(t, err)
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, data, 0644))

	doc, err = readDocument(good)
	require.NoError(t, err)
	assert.Equal(t, seed.Warehouse(), doc)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"rootNodes":[{"data":{}}],"rootEdges":[],"version":1}`), 0644))
	_, err = readDocument(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
	assert.Contains(t, err.Error(), "\n  - ")

	_, err = readDocument(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
