package dsl_test

import (
	"testing"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Hierarchy(t *testing.T) {
	doc, err := dsl.New().
		Process("p1", "Receiving").Gate(domain.GateNAND).
		Child("t1", "Scan").Required().
		Child("o1", "Missing NSN").Note("flag").Up().
		Up().
		Child("t2", "Verify").Up().
		Chain().
		Done().
		Process("p2", "Shipping").Done().
		Chain().
		Build()
	require.NoError(t, err)

	require.Len(t, doc.RootNodes, 2)
	require.Len(t, doc.RootEdges, 1)
	assert.Equal(t, "e-p1-p2", doc.RootEdges[0].ID)
	assert.Equal(t, domain.LevelProcess, doc.RootEdges[0].Level)

	p1 := doc.RootNodes[0]
	assert.Equal(t, domain.GateNAND, p1.Gate())
	require.Len(t, p1.Children(), 2)
	require.Len(t, p1.ChildEdges(), 1)
	assert.Equal(t, domain.LevelTask, p1.ChildEdges()[0].Level)

	t1 := p1.Children()[0]
	assert.Equal(t, "p1", t1.ParentID)
	assert.True(t, t1.Required)
	require.Len(t, t1.Children(), 1)

	o1 := t1.Children()[0]
	assert.Equal(t, domain.LevelOutcome, o1.Level)
	assert.Equal(t, "flag", o1.Outcome().LogicNote)
	assert.Equal(t, "t1", o1.ParentID)

	p2 := doc.RootNodes[1]
	assert.NotNil(t, p2.Children())
	assert.NotNil(t, p2.ChildEdges())
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *dsl.Builder
	}{
		{"empty id", func() *dsl.Builder {
			return dsl.New().Process("", "x").Done()
		}},
		{"duplicate id", func() *dsl.Builder {
			return dsl.New().Process("a", "x").Child("a", "y").Done()
		}},
		{"outcome child", func() *dsl.Builder {
			return dsl.New().Process("p", "").Child("t", "").Child("o", "").Child("x", "").Done()
		}},
		{"gate on outcome", func() *dsl.Builder {
			return dsl.New().Process("p", "").Child("t", "").Child("o", "").Gate(domain.GateOR).Done()
		}},
		{"note on process", func() *dsl.Builder {
			return dsl.New().Process("p", "").Note("n").Done()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.build().Build()
			assert.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		dsl.New().Process("", "").Done().MustBuild()
	})
}
