package dyeflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/adapters/memory"
	"github.com/aretw0/dyeflow/pkg/document"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/ports"
	"github.com/aretw0/dyeflow/pkg/seed"
)

// Editor is the high-level entry point of the library: a document session
// plus a snapshot store to save it to.
type Editor struct {
	*document.Store

	snapshots ports.SnapshotStore
	hooks     domain.Hooks
	rootLabel string
	doc       *domain.Document
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks on the document store.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithSnapshotStore sets where Save and Load keep documents.
// Defaults to an in-memory store.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(e *Editor) {
		e.snapshots = store
	}
}

// WithRootLabel sets the label of the root scope (default "Warehouse").
func WithRootLabel(label string) Option {
	return func(e *Editor) {
		e.rootLabel = label
	}
}

// WithDocument starts the session from doc.
func WithDocument(doc *domain.Document) Option {
	return func(e *Editor) {
		e.doc = doc
	}
}

// WithSeed starts the session from the starter warehouse document.
func WithSeed() Option {
	return func(e *Editor) {
		e.doc = seed.Warehouse()
	}
}

// New initializes an Editor.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.snapshots == nil {
		e.snapshots = memory.NewStore()
	}

	e.Store = document.New(
		document.WithLogger(e.logger),
		document.WithHooks(e.hooks),
		document.WithRootLabel(e.rootLabel),
		document.WithDocument(e.doc),
	)
	e.doc = nil
	return e, nil
}

// Snapshots returns the configured snapshot store.
func (e *Editor) Snapshots() ports.SnapshotStore {
	return e.snapshots
}

// Save exports the current document under name.
func (e *Editor) Save(ctx context.Context, name string) error {
	data, err := e.Export()
	if err != nil {
		return err
	}
	if err := e.snapshots.Save(ctx, name, data); err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	e.logger.Info("snapshot saved", "name", name, "bytes", len(data))
	return nil
}

// Load replaces the current document with the snapshot stored under name.
// On any failure the current document is left untouched.
func (e *Editor) Load(ctx context.Context, name string) error {
	data, err := e.snapshots.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if err := e.Import(data); err != nil {
		return fmt.Errorf("load snapshot %q: %w", name, err)
	}
	e.logger.Info("snapshot loaded", "name", name)
	return nil
}
