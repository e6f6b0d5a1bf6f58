package tree_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *domain.Document {
	t.Helper()
	b := dsl.New()
	p1 := b.Process("p1", "Receiving")
	t1 := p1.Child("t1", "Scan").Required()
	t1.Child("o1", "Missing").Required()
	t1.Child("o2", "Found")
	t1.Connect("o1", "o2")
	p1.Child("t2", "Verify")
	p1.Chain()
	p2 := b.Process("p2", "Inspection")
	p2.Child("t3", "Record")
	b.Chain()
	doc, err := b.Build()
	require.NoError(t, err)
	return doc
}

func TestFind(t *testing.T) {
	doc := sample(t)

	for _, id := range []string{"p1", "p2", "t1", "t2", "t3", "o1", "o2"} {
		n, ok := tree.Find(doc.RootNodes, id)
		require.True(t, ok, id)
		assert.Equal(t, id, n.ID)
	}

	_, ok := tree.Find(doc.RootNodes, "missing")
	assert.False(t, ok)
}

func TestLocate(t *testing.T) {
	doc := sample(t)

	loc, ok := tree.Locate(doc.RootNodes, "p2")
	require.True(t, ok)
	assert.Equal(t, "", loc.ParentID)
	assert.Equal(t, 1, loc.Index)

	loc, ok = tree.Locate(doc.RootNodes, "o2")
	require.True(t, ok)
	assert.Equal(t, "t1", loc.ParentID)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, "Found", loc.Node.Label)

	_, ok = tree.Locate(doc.RootNodes, "nope")
	assert.False(t, ok)
}

func TestApplyNodes_CopyOnWrite(t *testing.T) {
	doc := sample(t)
	before := doc.RootNodes
	oldP1 := before[0]
	oldT1 := oldP1.Children()[0]
	oldT2 := oldP1.Children()[1]

	added := domain.NewNode("o3", domain.LevelOutcome)
	after := tree.ApplyNodes(before, "t1", func(nodes []*domain.Node) []*domain.Node {
		return append(append([]*domain.Node{}, nodes...), added)
	})

	// Ancestors are copied.
	assert.NotSame(t, oldP1, after[0])
	assert.NotSame(t, oldT1, after[0].Children()[0])
	// Unrelated subtrees are shared.
	assert.Same(t, before[1], after[1])
	assert.Same(t, oldT2, after[0].Children()[1])
	// The input is untouched.
	assert.Len(t, oldT1.Children(), 2)
	assert.Len(t, after[0].Children()[0].Children(), 3)
	assert.Same(t, oldP1, before[0])
}

func TestApplyNodes_MissingTarget(t *testing.T) {
	doc := sample(t)
	called := false
	after := tree.ApplyNodes(doc.RootNodes, "ghost", func(nodes []*domain.Node) []*domain.Node {
		called = true
		return nodes
	})

	assert.False(t, called)
	assert.Same(t, &doc.RootNodes[0], &after[0], "unchanged slice expected")
}

func TestApplyNodes_LeafTargetIsNoop(t *testing.T) {
	doc := sample(t)
	after := tree.ApplyNodes(doc.RootNodes, "o1", func(nodes []*domain.Node) []*domain.Node {
		return append(nodes, domain.NewNode("x", domain.LevelOutcome))
	})
	assert.Same(t, &doc.RootNodes[0], &after[0])
}

func TestApplyEdges(t *testing.T) {
	doc := sample(t)
	after := tree.ApplyEdges(doc.RootNodes, "t1", func(edges []domain.Edge) []domain.Edge {
		return []domain.Edge{}
	})

	t1, _ := tree.Find(after, "t1")
	assert.Empty(t, t1.ChildEdges())

	old, _ := tree.Find(doc.RootNodes, "t1")
	assert.Len(t, old.ChildEdges(), 1)
}

func TestUpdateDataAt(t *testing.T) {
	doc := sample(t)
	label := "Renamed"
	off := false
	note := "check NSN registry"
	status := domain.StatusWarning

	after := tree.UpdateDataAt(doc.RootNodes, "o1", domain.Patch{
		Label:        &label,
		ManualActive: &off,
		LogicNote:    &note,
		Status:       &status,
	})

	o1, ok := tree.Find(after, "o1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", o1.Label)
	assert.False(t, o1.ManualActive)
	assert.Equal(t, "check NSN registry", o1.Outcome().LogicNote)
	assert.Equal(t, domain.StatusWarning, o1.Outcome().Status)
	assert.True(t, o1.Required, "untouched fields keep their value")

	old, _ := tree.Find(doc.RootNodes, "o1")
	assert.Equal(t, "Missing", old.Label)
	assert.True(t, old.ManualActive)
}

func TestUpdateDataAt_IgnoresFieldsOfOtherLevel(t *testing.T) {
	doc := sample(t)
	gate := domain.GateOR
	after := tree.UpdateDataAt(doc.RootNodes, "o1", domain.Patch{Gate: &gate})

	o1, _ := tree.Find(after, "o1")
	assert.Equal(t, domain.GateType(""), o1.Gate())
	assert.Same(t, doc.RootNodes[0], after[0])
}

func TestUpdateDataAt_SameValues(t *testing.T) {
	doc := sample(t)
	p1, _ := tree.Find(doc.RootNodes, "p1")
	label, active := p1.Label, p1.ManualActive
	after := tree.UpdateDataAt(doc.RootNodes, "p1", domain.Patch{Label: &label, ManualActive: &active})
	assert.Same(t, doc.RootNodes[0], after[0])
}

func TestUpdateDataAt_EmptyPatch(t *testing.T) {
	doc := sample(t)
	after := tree.UpdateDataAt(doc.RootNodes, "p1", domain.Patch{})
	assert.Same(t, doc.RootNodes[0], after[0])
}

func TestWalkAndCount(t *testing.T) {
	doc := sample(t)

	var visited []string
	depths := map[string]int{}
	tree.Walk(doc.RootNodes, func(n *domain.Node, depth int) bool {
		visited = append(visited, n.ID)
		depths[n.ID] = depth
		return true
	})

	assert.Equal(t, []string{"p1", "t1", "o1", "o2", "t2", "p2", "t3"}, visited)
	assert.Equal(t, 2, depths["o2"])
	assert.Equal(t, 7, tree.Count(doc.RootNodes))

	var shallow []string
	tree.Walk(doc.RootNodes, func(n *domain.Node, depth int) bool {
		shallow = append(shallow, n.ID)
		return false
	})
	assert.Equal(t, []string{"p1", "p2"}, shallow)
}

func TestFind_DeepTree(t *testing.T) {
	// Build a wide tree to check the search visits every branch.
	b := dsl.New()
	for i := 0; i < 20; i++ {
		p := b.Process(idf("p", i), "P")
		for j := 0; j < 5; j++ {
			task := p.Child(idf("t", i*10+j), "T")
			task.Child(idf("o", i*10+j), "O")
		}
	}
	doc := b.MustBuild()

	n, ok := tree.Find(doc.RootNodes, "o-194")
	require.True(t, ok)
	assert.Equal(t, domain.LevelOutcome, n.Level)
}

func idf(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}
