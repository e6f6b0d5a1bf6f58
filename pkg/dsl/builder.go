package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
)

// Builder manages the document construction.
type Builder struct {
	roots []*NodeBuilder
	edges []domain.Edge
	ids   map[string]bool
	errs  []error
}

// New creates a new document builder.
func New() *Builder {
	return &Builder{ids: make(map[string]bool)}
}

// Process adds a root-level Process node.
func (b *Builder) Process(id, label string) *NodeBuilder {
	nb := b.newNode(id, domain.LevelProcess, label, "")
	b.roots = append(b.roots, nb)
	return nb
}

// Connect adds a root-level edge from source to target.
func (b *Builder) Connect(source, target string) *Builder {
	b.edges = append(b.edges, newEdge(source, target, domain.LevelProcess))
	return b
}

// Chain connects the root nodes in insertion order.
func (b *Builder) Chain() *Builder {
	for i := 1; i < len(b.roots); i++ {
		b.Connect(b.roots[i-1].node.ID, b.roots[i].node.ID)
	}
	return b
}

// Build compiles the accumulated nodes into a Document.
func (b *Builder) Build() (*domain.Document, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("build document: %w", errors.Join(b.errs...))
	}
	doc := domain.NewDocument()
	doc.RootNodes = buildAll(b.roots)
	doc.RootEdges = append(doc.RootEdges, b.edges...)
	return doc, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Document {
	doc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return doc
}

func (b *Builder) newNode(id string, level domain.Level, label, parentID string) *NodeBuilder {
	if id == "" {
		b.errs = append(b.errs, errors.New("node id cannot be empty"))
	} else if b.ids[id] {
		b.errs = append(b.errs, fmt.Errorf("duplicate node id %q", id))
	}
	b.ids[id] = true

	n := domain.NewNode(id, level)
	n.Label = label
	n.ParentID = parentID
	return &NodeBuilder{node: n, builder: b}
}

func buildAll(nbs []*NodeBuilder) []*domain.Node {
	out := make([]*domain.Node, 0, len(nbs))
	for _, nb := range nbs {
		out = append(out, nb.build())
	}
	return out
}

func newEdge(source, target string, level domain.Level) domain.Edge {
	return domain.Edge{
		ID:       fmt.Sprintf("e-%s-%s", source, target),
		Source:   source,
		Target:   target,
		Level:    level,
		Animated: true,
	}
}
