package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/dyeflow/pkg/document"
	"github.com/aretw0/dyeflow/pkg/observability"
	"github.com/aretw0/dyeflow/pkg/seed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	s := document.New(document.WithDocument(seed.Warehouse()), document.WithHooks(m.Hooks()))

	require.NoError(t, s.ToggleActive("bot-mid-top-1-1-1"))
	require.NoError(t, s.ToggleActive("bot-mid-top-1-1-1"))
	s.DrillInto("top-1")
	require.NoError(t, s.DeleteNode("mid-top-1-3"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Changes.WithLabelValues("toggle_active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Changes.WithLabelValues("delete_node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Navigations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Depth))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Nodes.WithLabelValues("process")))
	assert.Equal(t, 17.0, testutil.ToFloat64(m.Nodes.WithLabelValues("task")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Blocked))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestMetrics_Blocked(t *testing.T) {
	m := observability.NewMetrics(nil)
	s := document.New(document.WithDocument(seed.Warehouse()), document.WithHooks(m.Hooks()))

	// Missing NSN off blocks Scan, which in turn blocks Receiving.
	require.NoError(t, s.ToggleActive("bot-mid-top-1-1-1"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Blocked))
}

func TestCombine_LogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := observability.NewMetrics(nil)

	hooks := observability.Combine(m.Hooks(), observability.LogHooks(logger))
	s := document.New(document.WithDocument(seed.Warehouse()), document.WithHooks(hooks))
	require.NoError(t, s.ToggleRequired("top-1"))
	s.DrillInto("top-1")

	assert.Contains(t, buf.String(), "document_change")
	assert.Contains(t, buf.String(), "node_id=top-1")
	assert.Contains(t, buf.String(), "scope=Receiving")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Changes.WithLabelValues("toggle_required")))
}
