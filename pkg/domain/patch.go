package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Patch is a partial update of a node's data fields. Nil fields are left
// untouched. Gate applies to composite nodes only; LogicNote and Status apply
// to outcomes only. Fields that do not apply to the target are ignored.
type Patch struct {
	Label        *string   `json:"label,omitempty" mapstructure:"label"`
	Description  *string   `json:"description,omitempty" mapstructure:"description"`
	Color        *string   `json:"color,omitempty" mapstructure:"color"`
	Position     *Position `json:"position,omitempty" mapstructure:"position"`
	ManualActive *bool     `json:"isActive,omitempty" mapstructure:"isActive"`
	Required     *bool     `json:"isRequired,omitempty" mapstructure:"isRequired"`
	Gate         *GateType `json:"gateType,omitempty" mapstructure:"gateType"`
	LogicNote    *string   `json:"logicNote,omitempty" mapstructure:"logicNote"`
	Status       *Status   `json:"status,omitempty" mapstructure:"status"`
}

// PatchFromMap decodes a loosely typed field map (as received from HTTP or
// MCP clients) into a Patch. Unknown keys and invalid enum values are errors.
func PatchFromMap(fields map[string]any) (Patch, error) {
	var p Patch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return Patch{}, err
	}
	if err := dec.Decode(fields); err != nil {
		return Patch{}, fmt.Errorf("decode patch: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// Validate checks enum-valued fields.
func (p Patch) Validate() error {
	if p.Gate != nil && !p.Gate.Valid() {
		return fmt.Errorf("invalid gate type %q", *p.Gate)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	return nil
}

// Empty reports whether the patch sets no field.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Changes reports whether applying the patch to n would alter any field
// that applies to n's level.
func (p Patch) Changes(n *Node) bool {
	switch {
	case p.Label != nil && *p.Label != n.Label,
		p.Description != nil && *p.Description != n.Description,
		p.Color != nil && *p.Color != n.Color,
		p.Position != nil && *p.Position != n.Position,
		p.ManualActive != nil && *p.ManualActive != n.ManualActive,
		p.Required != nil && *p.Required != n.Required:
		return true
	}
	switch b := n.Body.(type) {
	case *Composite:
		return p.Gate != nil && *p.Gate != b.Gate
	case *Outcome:
		return (p.LogicNote != nil && *p.LogicNote != b.LogicNote) ||
			(p.Status != nil && *p.Status != b.Status)
	}
	return false
}

// Apply returns a copy of n with the patch merged in. n is not modified.
// When the patch changes nothing, n itself is returned.
func (p Patch) Apply(n *Node) *Node {
	if !p.Changes(n) {
		return n
	}
	cp := n.Clone()
	if p.Label != nil {
		cp.Label = *p.Label
	}
	if p.Description != nil {
		cp.Description = *p.Description
	}
	if p.Color != nil {
		cp.Color = *p.Color
	}
	if p.Position != nil {
		cp.Position = *p.Position
	}
	if p.ManualActive != nil {
		cp.ManualActive = *p.ManualActive
	}
	if p.Required != nil {
		cp.Required = *p.Required
	}
	switch b := cp.Body.(type) {
	case *Composite:
		if p.Gate != nil {
			b.Gate = *p.Gate
		}
	case *Outcome:
		if p.LogicNote != nil {
			b.LogicNote = *p.LogicNote
		}
		if p.Status != nil {
			b.Status = *p.Status
		}
	}
	return cp
}
