// Package seed provides the starter warehouse document and the per-level
// palette of node templates offered for drag creation.
package seed

import (
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/dsl"
)

// Template is a palette entry: the label and description given to a node
// created by dragging it onto the canvas.
type Template struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var templates = map[domain.Level][]Template{
	domain.LevelProcess: {
		{"Receiving", "Inbound goods processing", "📥"},
		{"Inspection", "Visual and functional checks", "🔍"},
		{"Pre-Audit", "Preliminary documentation review", "📋"},
		{"Audit", "Detailed compliance verification", "✅"},
		{"Packing", "Prepare items for shipment", "📦"},
		{"Shipping", "Outbound dispatch", "📤"},
	},
	domain.LevelTask: {
		{"Scan", "Scan item identifiers", "📱"},
		{"Verify", "Validate item details", "🔍"},
		{"Record", "Log transaction in system", "📝"},
		{"Label Item", "Apply labels", "🏷️"},
		{"Route Item", "Direct to location", "🔀"},
		{"Notify Team", "Send alert", "🔔"},
	},
	domain.LevelOutcome: {
		{"Missing NSN", "NSN not found", "❌"},
		{"NSN Found", "Item matched", "✅"},
		{"Duplicate Found", "Item exists", "⚠️"},
		{"Mismatch", "Qty mismatch", "🔴"},
		{"Escalate", "Needs supervisor", "⬆️"},
		{"Auto-Resolve", "System handled", "🤖"},
	},
}

// Templates returns the palette for level. Unknown levels have none.
func Templates(level domain.Level) []Template {
	return append([]Template(nil), templates[level]...)
}

const spacing = 300

// Warehouse builds the starter document: six chained processes, each with
// three chained required tasks. The first task of every process owns a
// required "Missing NSN" outcome wired to an optional "NSN Found" one.
func Warehouse() *domain.Document {
	b := dsl.New()
	for i, tpl := range templates[domain.LevelProcess] {
		pid := fmt.Sprintf("top-%d", i+1)
		p := b.Process(pid, tpl.Label).Describe(tpl.Description).At(float64(80+i*spacing), 120)

		for j, task := range templates[domain.LevelTask][:3] {
			tid := fmt.Sprintf("mid-%s-%d", pid, j+1)
			t := p.Child(tid, task.Label).Describe(task.Description).At(float64(80+j*spacing), 100).Required()
			if j == 0 {
				missing, found := "bot-"+tid+"-1", "bot-"+tid+"-2"
				t.Child(missing, "Missing NSN").Describe("NSN not found in system").At(80, 100).Required()
				t.Child(found, "NSN Found").Describe("Item matched and recorded").At(80+spacing, 100)
				t.Connect(missing, found)
			}
		}
		p.Chain()
	}
	return b.Chain().MustBuild()
}
