package schema_test

import (
	"errors"
	"testing"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := dsl.New().
		Process("p1", "Receiving").At(10, 20).Gate(domain.GateOR).
		Child("t1", "Scan").Required().
		Child("o1", "Missing NSN").Required().Note("flag it").Status(domain.StatusWarning).Up().
		Child("o2", "NSN Found").Up().
		Connect("o1", "o2").
		Up().
		Child("t2", "Verify").Inactive().Up().
		Done().
		Process("p2", "Shipping").Done().
		Connect("p1", "p2").
		Build()
	require.NoError(t, err)
	return doc
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	doc := sample(t)

	data, err := schema.Encode(doc)
	require.NoError(t, err)

	got, err := schema.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncode_WireShape(t *testing.T) {
	data, err := schema.Encode(sample(t))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"rootNodes"`)
	assert.Contains(t, s, `"rootEdges"`)
	assert.Contains(t, s, `"version": 1`)
	assert.Contains(t, s, `"type": "processNode"`)
	assert.Contains(t, s, `"parentId": null`)
	assert.Contains(t, s, `"parentId": "p1"`)
	assert.Contains(t, s, `"gateType": "OR"`)
	assert.Contains(t, s, `"logicNote": "flag it"`)
}

func TestDecode_Defaults(t *testing.T) {
	payload := `{
		"rootNodes": [{
			"id": "p1",
			"position": {"x": 1, "y": 2},
			"data": {"label": "P", "level": "top", "childNodes": [
				{"id": "t1", "data": {"label": "T", "level": "mid", "parentId": "wrong"}}
			]}
		}],
		"rootEdges": [],
		"version": 1
	}`

	doc, err := schema.Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, doc.RootNodes, 1)

	p := doc.RootNodes[0]
	assert.Equal(t, domain.LevelProcess, p.Level)
	assert.True(t, p.ManualActive, "missing isActive defaults to true")
	assert.False(t, p.Required)
	assert.Equal(t, domain.GateAND, p.Gate())
	assert.Equal(t, domain.Position{X: 1, Y: 2}, p.Position)

	require.Len(t, p.Children(), 1)
	child := p.Children()[0]
	assert.Equal(t, domain.LevelTask, child.Level)
	assert.Equal(t, "p1", child.ParentID, "parent id follows the structure")
	assert.NotNil(t, child.ChildEdges())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		keys    []string
	}{
		{
			name:    "not json",
			payload: `{rootNodes`,
		},
		{
			name:    "null",
			payload: `null`,
		},
		{
			name:    "missing rootEdges",
			payload: `{"rootNodes": [], "version": 1}`,
			keys:    []string{"rootEdges"},
		},
		{
			name:    "unknown key",
			payload: `{"rootNodes": [], "rootEdges": [], "version": 1, "extra": true}`,
			keys:    []string{"extra"},
		},
		{
			name:    "unsupported version",
			payload: `{"rootNodes": [], "rootEdges": [], "version": 7}`,
			keys:    []string{"version"},
		},
		{
			name: "task at root",
			payload: `{"rootNodes": [{"id": "t1", "data": {"level": "task"}}],
				"rootEdges": [], "version": 1}`,
			keys: []string{"rootNodes[0].data.level"},
		},
		{
			name: "duplicate ids",
			payload: `{"rootNodes": [
				{"id": "p1", "data": {"level": "process"}},
				{"id": "p1", "data": {"level": "process"}}
			], "rootEdges": [], "version": 1}`,
			keys: []string{"rootNodes[1].id"},
		},
		{
			name: "outcome with children",
			payload: `{"rootNodes": [{"id": "p1", "data": {"level": "process", "childNodes": [
				{"id": "t1", "data": {"level": "task", "childNodes": [
					{"id": "o1", "data": {"level": "outcome", "childNodes": [
						{"id": "x", "data": {"level": "outcome"}}
					]}}
				]}}
			]}}], "rootEdges": [], "version": 1}`,
			keys: []string{"rootNodes[0].data.childNodes[0].data.childNodes[0].data.childNodes"},
		},
		{
			name: "mistyped fields",
			payload: `{"rootNodes": [{"id": 7, "data": {"level": "process", "isRequired": "yes", "childNodes": [
				{"id": "t1", "data": {"level": "task", "label": false}}
			]}}], "rootEdges": [{"id": "e1", "source": "p1", "target": "p1", "animated": 1}], "version": 1}`,
			keys: []string{
				"rootNodes[0].id",
				"rootNodes[0].data.isRequired",
				"rootNodes[0].data.childNodes[0].data.label",
				"rootEdges[0].animated",
			},
		},
		{
			name: "bad enums",
			payload: `{"rootNodes": [{"id": "p1", "data": {"level": "process", "gateType": "XOR"}}],
				"rootEdges": [{"id": "e1", "source": "p1", "target": "p1", "data": {"level": "task"}}],
				"version": 1}`,
			keys: []string{"rootNodes[0].data.gateType", "rootEdges[0].data.level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := schema.Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.Nil(t, doc)

			var perr *domain.ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)

			if tt.keys == nil {
				return
			}
			var keys []string
			for _, e := range schema.ValidationErrors(err) {
				var verr *schema.ValidationError
				require.True(t, errors.As(e, &verr))
				keys = append(keys, verr.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestValidateStrict(t *testing.T) {
	s := schema.Schema{
		"name":  schema.String(),
		"count": schema.Int(),
		"tags":  schema.Slice(schema.String()),
	}

	assert.NoError(t, schema.ValidateStrict(s, map[string]any{
		"name": "a", "count": float64(2), "tags": []any{"x"},
	}))

	err := schema.ValidateStrict(s, map[string]any{
		"name": 3, "count": 1.5, "tags": []any{"x"}, "zzz": 1,
	})
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 3)

	assert.NoError(t, schema.Validate(s, map[string]any{
		"name": "a", "count": 1, "tags": []any{}, "zzz": 1,
	}), "non-strict validation ignores unknown keys")

	err = schema.ValidatePartial(s, map[string]any{"name": true, "zzz": 1})
	require.Error(t, err)
	require.Len(t, schema.ValidationErrors(err), 1)
	assert.NoError(t, schema.ValidatePartial(s, map[string]any{"count": nil}),
		"partial validation skips absent and null fields")
}
