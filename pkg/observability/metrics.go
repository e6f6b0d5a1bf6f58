package observability

import (
	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records document activity.
type Metrics struct {
	Changes     *prometheus.CounterVec
	Navigations prometheus.Counter
	Depth       prometheus.Gauge
	Nodes       *prometheus.GaugeVec
	Blocked     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dyeflow_document_changes_total",
				Help: "Total number of successful document mutations",
			},
			[]string{"op"},
		),
		Navigations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyeflow_navigations_total",
			Help: "Total number of navigation stack changes",
		}),
		Depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dyeflow_navigation_depth",
			Help: "Depth of the current scope, 0 at the root",
		}),
		Nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dyeflow_nodes",
				Help: "Number of nodes in the document per level",
			},
			[]string{"level"},
		),
		Blocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dyeflow_blocked_nodes",
			Help: "Nodes switched on but held inactive by their gate",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Changes, m.Navigations, m.Depth, m.Nodes, m.Blocked)
	}
	return m
}

// Hooks returns store callbacks feeding the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnChange: func(e *domain.ChangeEvent) {
			m.Changes.WithLabelValues(string(e.Op)).Inc()
			m.Observe(e.Current)
		},
		OnNavigate: func(e *domain.NavigationEvent) {
			m.Navigations.Inc()
			m.Depth.Set(float64(e.Depth))
		},
	}
}

// Observe recomputes the document gauges from doc.
func (m *Metrics) Observe(doc *domain.Document) {
	if doc == nil {
		return
	}
	counts := make(map[domain.Level]int, 3)
	blocked := 0
	tree.Walk(doc.RootNodes, func(n *domain.Node, _ int) bool {
		counts[n.Level]++
		if activation.Blocked(n) {
			blocked++
		}
		return true
	})
	for _, l := range domain.Levels() {
		m.Nodes.WithLabelValues(string(l)).Set(float64(counts[l]))
	}
	m.Blocked.Set(float64(blocked))
}
