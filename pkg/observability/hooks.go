package observability

import (
	"log/slog"

	"github.com/aretw0/dyeflow/pkg/domain"
)

// LogHooks logs every change and navigation at info level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnChange: func(e *domain.ChangeEvent) {
			logger.Info("document_change",
				"op", e.Op,
				"level", e.Level,
				"node_id", e.NodeID,
				"edge_id", e.EdgeID,
			)
		},
		OnNavigate: func(e *domain.NavigationEvent) {
			logger.Info("navigate",
				"depth", e.Depth,
				"scope", e.Scope.Label,
				"level", e.Scope.Level,
			)
		},
	}
}

// Combine fans each event out to all hooks, in order.
func Combine(hooks ...domain.Hooks) domain.Hooks {
	return domain.Hooks{
		OnChange: func(e *domain.ChangeEvent) {
			for _, h := range hooks {
				if h.OnChange != nil {
					h.OnChange(e)
				}
			}
		},
		OnNavigate: func(e *domain.NavigationEvent) {
			for _, h := range hooks {
				if h.OnNavigate != nil {
					h.OnNavigate(e)
				}
			}
		},
	}
}
