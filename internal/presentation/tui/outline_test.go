package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/dyeflow/internal/presentation/tui"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
)

func TestOutline(t *testing.T) {
	doc := dsl.New().
		Process("p1", "Receiving").
		Child("t1", "Scan").Required().
		Child("o1", "Missing NSN").Required().Inactive().Status(domain.StatusError).Up().
		Up().
		Done().
		MustBuild()

	got := tui.Outline("Warehouse", doc)

	assert.True(t, strings.HasPrefix(got, "# Warehouse\n"))
	assert.Contains(t, got, "- ⛔ **Receiving** `AND` (blocked)\n")
	assert.Contains(t, got, "  - ⛔ **Scan** `AND` _required_ (blocked)\n")
	assert.Contains(t, got, "    - ⏸️ **Missing NSN** _required_ [error]\n")
	assert.Contains(t, got, "3 nodes")
}

func TestOutline_Empty(t *testing.T) {
	assert.Contains(t, tui.Outline("x", domain.NewDocument()), "_empty document_")
}

func TestNewRenderer_NotTerminal(t *testing.T) {
	render := tui.NewRenderer(nil)
	out, err := render("# hi")
	assert.NoError(t, err)
	assert.Equal(t, "# hi", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}
