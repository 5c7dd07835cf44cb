// Package metrics exposes Prometheus counters for reconciliation and import outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	suggestions   *prometheus.CounterVec
	duplicates    *prometheus.CounterVec
	linkConflicts prometheus.Counter
	imported      prometheus.Counter
	autoLinked    prometheus.Counter
}

// NewMetrics creates a private registry and registers all metrics in it,
// so repeated construction in tests never collides.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		suggestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mycfo_match_suggestions_total",
				Help: "Document suggestions served, by level.",
			},
			[]string{"level"},
		),
		duplicates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mycfo_import_duplicates_total",
				Help: "Imported payments flagged as duplicates, by signal.",
			},
			[]string{"reason"},
		),
		linkConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mycfo_link_conflicts_total",
				Help: "Link attempts rejected because a side was already claimed.",
			},
		),
		imported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mycfo_imported_movements_total",
				Help: "Movements created by payment imports.",
			},
		),
		autoLinked: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mycfo_auto_linked_movements_total",
				Help: "Movements linked by an auto reconciliation run.",
			},
		),
	}
}

// IncrSuggestion increments the suggestion counter for a level.
func (m *Metrics) IncrSuggestion(level string) {
	m.suggestions.WithLabelValues(level).Inc()
}

// IncrDuplicate increments the duplicate counter for a signal.
func (m *Metrics) IncrDuplicate(reason string) {
	m.duplicates.WithLabelValues(reason).Inc()
}

// IncrLinkConflict increments the link conflict counter.
func (m *Metrics) IncrLinkConflict() {
	m.linkConflicts.Inc()
}

// AddImported adds to the imported movements counter.
func (m *Metrics) AddImported(count int) {
	if count <= 0 {
		return
	}
	m.imported.Add(float64(count))
}

// AddAutoLinked adds to the auto-linked movements counter.
func (m *Metrics) AddAutoLinked(count int) {
	if count <= 0 {
		return
	}
	m.autoLinked.Add(float64(count))
}
