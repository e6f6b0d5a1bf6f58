package navigation_test

import (
	"math/rand"
	"testing"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
	"github.com/aretw0/dyeflow/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roots(t *testing.T) []*domain.Node {
	t.Helper()
	b := dsl.New()
	p := b.Process("p1", "Receiving")
	task := p.Child("t1", "Scan")
	task.Child("o1", "Missing NSN")
	b.Process("p2", "Inspection").Child("t2", "Verify")
	doc, err := b.Build()
	require.NoError(t, err)
	return doc.RootNodes
}

func TestNewStack(t *testing.T) {
	s := navigation.NewStack("")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, domain.Scope{Level: domain.LevelProcess, Label: "Warehouse"}, s.Current())

	s = navigation.NewStack("Factory")
	assert.Equal(t, "Factory", s.Root().Label)
}

func TestZeroStackHasRoot(t *testing.T) {
	var s navigation.Stack
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Current().Root())
}

func TestDrillInto(t *testing.T) {
	r := roots(t)
	s := navigation.NewStack("")

	s1 := s.DrillInto(r, "p1")
	require.Equal(t, 2, s1.Len())
	assert.Equal(t, domain.Scope{Level: domain.LevelTask, ParentNodeID: "p1", Label: "Receiving"}, s1.Current())
	assert.Equal(t, 1, s.Len(), "receiver is not modified")

	s2 := s1.DrillInto(r, "t1")
	require.Equal(t, 3, s2.Len())
	assert.Equal(t, domain.LevelOutcome, s2.Current().Level)
	assert.Equal(t, "t1", s2.Current().ParentNodeID)
}

func TestDrillInto_Noops(t *testing.T) {
	r := roots(t)
	s := navigation.NewStack("").DrillInto(r, "p1").DrillInto(r, "t1")

	t.Run("outcome", func(t *testing.T) {
		assert.True(t, s.Equal(s.DrillInto(r, "o1")))
	})
	t.Run("unknown node", func(t *testing.T) {
		assert.True(t, s.Equal(s.DrillInto(r, "ghost")))
	})
}

func TestNavigateTo(t *testing.T) {
	r := roots(t)
	s := navigation.NewStack("").DrillInto(r, "p1").DrillInto(r, "t1")

	t.Run("current index is idempotent", func(t *testing.T) {
		got, err := s.NavigateTo(s.Len() - 1)
		require.NoError(t, err)
		assert.True(t, s.Equal(got))
	})

	t.Run("ancestor discards deeper scopes", func(t *testing.T) {
		got, err := s.NavigateTo(1)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Len())
		assert.Equal(t, "p1", got.Current().ParentNodeID)
		assert.Equal(t, 3, s.Len())
	})

	t.Run("root", func(t *testing.T) {
		got, err := s.NavigateTo(0)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Len())
		assert.True(t, got.Current().Root())
	})

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 42} {
			got, err := s.NavigateTo(idx)
			assert.ErrorIs(t, err, domain.ErrScopeIndex)
			assert.True(t, s.Equal(got))
		}
	})
}

func TestRootInvariant_RandomWalk(t *testing.T) {
	r := roots(t)
	ids := []string{"p1", "p2", "t1", "t2", "o1", "ghost"}
	rng := rand.New(rand.NewSource(7))
	root := navigation.NewStack("").Root()

	s := navigation.NewStack("")
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			s = s.DrillInto(r, ids[rng.Intn(len(ids))])
		} else {
			s, _ = s.NavigateTo(rng.Intn(s.Len() + 1))
		}
		require.GreaterOrEqual(t, s.Len(), 1)
		require.Equal(t, root, s.Scopes()[0])
	}
}

func TestReset(t *testing.T) {
	r := roots(t)
	s := navigation.NewStack("Plant").DrillInto(r, "p2")
	reset := s.Reset()
	assert.Equal(t, 1, reset.Len())
	assert.Equal(t, "Plant", reset.Current().Label)
	assert.Equal(t, 2, s.Len())
}
