package seed_test

import (
	"testing"

	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/seed"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarehouse(t *testing.T) {
	doc := seed.Warehouse()

	require.Len(t, doc.RootNodes, 6)
	assert.Len(t, doc.RootEdges, 5)
	assert.Equal(t, "Receiving", doc.RootNodes[0].Label)
	assert.Equal(t, "Shipping", doc.RootNodes[5].Label)
	assert.Equal(t, 6+6*3+6*2, tree.Count(doc.RootNodes))

	p := doc.RootNodes[0]
	require.Len(t, p.Children(), 3)
	assert.Len(t, p.ChildEdges(), 2)
	for _, task := range p.Children() {
		assert.True(t, task.Required)
		assert.Equal(t, "top-1", task.ParentID)
	}

	scan := p.Children()[0]
	require.Len(t, scan.Children(), 2)
	assert.True(t, scan.Children()[0].Required)
	assert.False(t, scan.Children()[1].Required)
	assert.Len(t, scan.ChildEdges(), 1)

	for _, n := range doc.RootNodes {
		assert.True(t, activation.Effective(n), n.ID)
	}
}

func TestWarehouse_Encodes(t *testing.T) {
	data, err := schema.Encode(seed.Warehouse())
	require.NoError(t, err)

	doc, err := schema.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, seed.Warehouse(), doc)
}

func TestTemplates(t *testing.T) {
	for _, l := range domain.Levels() {
		assert.Len(t, seed.Templates(l), 6, l)
	}
	assert.Empty(t, seed.Templates("nope"))

	tpl := seed.Templates(domain.LevelTask)
	tpl[0].Label = "changed"
	assert.Equal(t, "Scan", seed.Templates(domain.LevelTask)[0].Label)
}
