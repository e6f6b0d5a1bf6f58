package document

import (
	"log/slog"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/google/uuid"
)

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for mutation and import events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers callbacks fired after document and navigation changes.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// WithRootLabel sets the label of the root scope.
func WithRootLabel(label string) Option {
	return func(s *Store) {
		s.rootLabel = label
	}
}

// WithDocument starts the session from doc instead of an empty document.
// The document is adopted as is and must not be modified afterwards.
func WithDocument(doc *domain.Document) Option {
	return func(s *Store) {
		if doc != nil {
			s.doc = doc
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new nodes and edges.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func newUUID() string {
	return uuid.NewString()
}
