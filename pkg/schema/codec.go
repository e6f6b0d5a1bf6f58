package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
)

// Envelope is the field schema of the top-level exchange object.
var Envelope = Schema{
	"rootNodes": Slice(Object()),
	"rootEdges": Slice(Object()),
	"version": Custom("version", func(v any) error {
		if err := Int().Validate(v); err != nil {
			return err
		}
		if n := int(v.(float64)); n < 1 || n > domain.CurrentVersion {
			return fmt.Errorf("unsupported version %d", n)
		}
		return nil
	}),
}

// Field types of the nested exchange objects. Every field is optional; only
// the ones present are checked.
var (
	nodeFields = Schema{
		"id":       String(),
		"type":     String(),
		"position": Object(),
		"data":     Object(),
	}
	nodeDataFields = Schema{
		"label":       String(),
		"description": String(),
		"color":       String(),
		"level":       String(),
		"parentId":    String(),
		"isActive":    Bool(),
		"isRequired":  Bool(),
		"gateType":    String(),
		"logicNote":   String(),
		"status":      String(),
		"childNodes":  Slice(Object()),
		"childEdges":  Slice(Object()),
	}
	edgeFields = Schema{
		"id":       String(),
		"source":   String(),
		"target":   String(),
		"label":    String(),
		"animated": Bool(),
		"data":     Object(),
	}
	edgeDataFields = Schema{
		"level": String(),
	}
)

type wireDocument struct {
	RootNodes []wireNode `json:"rootNodes"`
	RootEdges []wireEdge `json:"rootEdges"`
	Version   int        `json:"version"`
}

type wireNode struct {
	ID       string          `json:"id"`
	Type     string          `json:"type,omitempty"`
	Position domain.Position `json:"position"`
	Data     wireNodeData    `json:"data"`
}

type wireNodeData struct {
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Color       string     `json:"color,omitempty"`
	Level       string     `json:"level"`
	ParentID    *string    `json:"parentId"`
	IsActive    *bool      `json:"isActive,omitempty"`
	IsRequired  bool       `json:"isRequired"`
	GateType    string     `json:"gateType,omitempty"`
	LogicNote   string     `json:"logicNote,omitempty"`
	Status      string     `json:"status,omitempty"`
	ChildNodes  []wireNode `json:"childNodes"`
	ChildEdges  []wireEdge `json:"childEdges"`
}

type wireEdge struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Animated bool         `json:"animated"`
	Label    string       `json:"label"`
	Data     wireEdgeData `json:"data"`
}

type wireEdgeData struct {
	Level string `json:"level"`
}

// Encode serializes doc to the indented exchange form.
func Encode(doc *domain.Document) ([]byte, error) {
	w := wireDocument{
		RootNodes: encodeNodes(doc.RootNodes),
		RootEdges: encodeEdges(doc.RootEdges),
		Version:   doc.Version,
	}
	if w.Version == 0 {
		w.Version = domain.CurrentVersion
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// Decode parses the exchange form. Any failure is returned as a
// *domain.ParseError; structural failures are aggregated inside it.
func Decode(data []byte) (*domain.Document, error) {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &domain.ParseError{Cause: err}
	}
	if envelope == nil {
		return nil, &domain.ParseError{Cause: fmt.Errorf("expected object, got null")}
	}
	if err := ValidateStrict(Envelope, envelope); err != nil {
		return nil, &domain.ParseError{Cause: err}
	}

	d := &decoder{seen: make(map[string]bool)}
	d.checkNodes("rootNodes", envelope["rootNodes"])
	d.checkEdges("rootEdges", envelope["rootEdges"])
	if len(d.errs) > 0 {
		return nil, &domain.ParseError{Cause: &AggregateError{Errors: d.errs}}
	}

	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &domain.ParseError{Cause: err}
	}

	doc := &domain.Document{
		RootNodes: d.nodes("rootNodes", w.RootNodes, domain.LevelProcess, ""),
		RootEdges: d.edges("rootEdges", w.RootEdges, domain.LevelProcess),
		Version:   w.Version,
	}
	if len(d.errs) > 0 {
		return nil, &domain.ParseError{Cause: &AggregateError{Errors: d.errs}}
	}
	return doc, nil
}

type decoder struct {
	seen map[string]bool
	errs []error
}

func (d *decoder) fail(path, reason string, value any) {
	d.errs = append(d.errs, &ValidationError{Key: path, Reason: reason, Value: value})
}

// checkNodes type-checks raw node objects so that mistyped fields are
// reported with their path instead of failing the typed unmarshal.
func (d *decoder) checkNodes(path string, raw any) {
	items, _ := raw.([]any)
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		n := d.check(p, nodeFields, item)
		data := d.check(p+".data", nodeDataFields, n["data"])
		d.checkNodes(p+".data.childNodes", data["childNodes"])
		d.checkEdges(p+".data.childEdges", data["childEdges"])
	}
}

func (d *decoder) checkEdges(path string, raw any) {
	items, _ := raw.([]any)
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		e := d.check(p, edgeFields, item)
		d.check(p+".data", edgeDataFields, e["data"])
	}
}

func (d *decoder) check(path string, s Schema, raw any) map[string]any {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	for _, err := range ValidationErrors(ValidatePartial(s, m)) {
		var verr *ValidationError
		if errors.As(err, &verr) {
			d.fail(path+"."+verr.Key, verr.Reason, verr.Value)
		}
	}
	return m
}

func (d *decoder) nodes(path string, in []wireNode, level domain.Level, parentID string) []*domain.Node {
	out := make([]*domain.Node, 0, len(in))
	for i, w := range in {
		if n := d.node(fmt.Sprintf("%s[%d]", path, i), w, level, parentID); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (d *decoder) node(path string, w wireNode, want domain.Level, parentID string) *domain.Node {
	switch {
	case w.ID == "":
		d.fail(path+".id", "required", nil)
	case d.seen[w.ID]:
		d.fail(path+".id", "duplicate id", w.ID)
	}
	d.seen[w.ID] = true

	level, err := domain.ParseLevel(w.Data.Level)
	if err != nil {
		d.fail(path+".data.level", err.Error(), nil)
		return nil
	}
	if level != want {
		d.fail(path+".data.level", fmt.Sprintf("expected %s", want), w.Data.Level)
		return nil
	}

	n := domain.NewNode(w.ID, level)
	n.ParentID = parentID
	n.Position = w.Position
	n.Label = w.Data.Label
	n.Description = w.Data.Description
	n.Color = w.Data.Color
	n.ManualActive = w.Data.IsActive == nil || *w.Data.IsActive
	n.Required = w.Data.IsRequired

	switch b := n.Body.(type) {
	case *domain.Composite:
		if w.Data.GateType != "" {
			b.Gate = domain.GateType(w.Data.GateType)
			if !b.Gate.Valid() {
				d.fail(path+".data.gateType", "unknown gate", w.Data.GateType)
			}
		}
		next, _ := level.Next()
		b.Nodes = d.nodes(path+".data.childNodes", w.Data.ChildNodes, next, w.ID)
		b.Edges = d.edges(path+".data.childEdges", w.Data.ChildEdges, next)
	case *domain.Outcome:
		b.LogicNote = w.Data.LogicNote
		if w.Data.Status != "" {
			b.Status = domain.Status(w.Data.Status)
			if !b.Status.Valid() {
				d.fail(path+".data.status", "unknown status", w.Data.Status)
			}
		}
		if len(w.Data.ChildNodes) > 0 || len(w.Data.ChildEdges) > 0 {
			d.fail(path+".data.childNodes", "outcome nodes cannot have children", nil)
		}
	}
	return n
}

func (d *decoder) edges(path string, in []wireEdge, scope domain.Level) []domain.Edge {
	out := make([]domain.Edge, 0, len(in))
	for i, w := range in {
		p := fmt.Sprintf("%s[%d]", path, i)
		if w.ID == "" {
			d.fail(p+".id", "required", nil)
		}
		if w.Source == "" || w.Target == "" {
			d.fail(p, "source and target are required", nil)
		}
		level := scope
		if w.Data.Level != "" {
			parsed, err := domain.ParseLevel(w.Data.Level)
			switch {
			case err != nil:
				d.fail(p+".data.level", err.Error(), nil)
			case parsed != scope:
				d.fail(p+".data.level", fmt.Sprintf("expected %s", scope), w.Data.Level)
			}
		}
		out = append(out, domain.Edge{
			ID:       w.ID,
			Source:   w.Source,
			Target:   w.Target,
			Level:    level,
			Animated: w.Animated,
			Label:    w.Label,
		})
	}
	return out
}

func encodeNodes(nodes []*domain.Node) []wireNode {
	out := make([]wireNode, 0, len(nodes))
	for _, n := range nodes {
		active := n.ManualActive
		w := wireNode{
			ID:       n.ID,
			Type:     string(n.Level) + "Node",
			Position: n.Position,
			Data: wireNodeData{
				Label:       n.Label,
				Description: n.Description,
				Color:       n.Color,
				Level:       string(n.Level),
				IsActive:    &active,
				IsRequired:  n.Required,
				ChildNodes:  []wireNode{},
				ChildEdges:  []wireEdge{},
			},
		}
		if n.ParentID != "" {
			parent := n.ParentID
			w.Data.ParentID = &parent
		}
		switch b := n.Body.(type) {
		case *domain.Composite:
			w.Data.GateType = string(b.Gate)
			w.Data.ChildNodes = encodeNodes(b.Nodes)
			w.Data.ChildEdges = encodeEdges(b.Edges)
		case *domain.Outcome:
			w.Data.LogicNote = b.LogicNote
			w.Data.Status = string(b.Status)
		}
		out = append(out, w)
	}
	return out
}

func encodeEdges(edges []domain.Edge) []wireEdge {
	out := make([]wireEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, wireEdge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Animated: e.Animated,
			Label:    e.Label,
			Data:     wireEdgeData{Level: string(e.Level)},
		})
	}
	return out
}
