package taxonomy

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Term origin labels for the creation counter.
const (
	OriginGADM      = "gadm"
	OriginContinent = "continent"
)

// Metrics tracks pipeline counters on a private Prometheus registry.
// In watch mode the registry is served over HTTP; in one-shot mode
// the counters only feed the end-of-run summary log. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	termsCreated         *prometheus.CounterVec
	collisions           prometheus.Counter
	collisionsResolved   prometheus.Counter
	collisionsUnresolved prometheus.Counter
	rebuilds             prometheus.Counter
	rebuildFailures      prometheus.Counter
}

// NewMetrics creates and registers the pipeline counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		termsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gadm2obo_terms_created_total",
			Help: "Terms created, by origin (gadm or continent).",
		}, []string{"origin"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gadm2obo_collisions_total",
			Help: "Distinct names shared by more than one term.",
		}),
		collisionsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gadm2obo_collisions_resolved_total",
			Help: "Duplicate-name terms resolved by disambiguation.",
		}),
		collisionsUnresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gadm2obo_collisions_unresolved_total",
			Help: "Duplicate-name terms left unresolved.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gadm2obo_rebuilds_total",
			Help: "Completed pipeline runs.",
		}),
		rebuildFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gadm2obo_rebuild_failures_total",
			Help: "Pipeline runs that aborted with an error.",
		}),
	}
	m.registry.MustRegister(
		m.termsCreated,
		m.collisions,
		m.collisionsResolved,
		m.collisionsUnresolved,
		m.rebuilds,
		m.rebuildFailures,
	)
	return m
}

// Handler returns the HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TermCreated counts a created term by origin.
func (m *Metrics) TermCreated(origin string) {
	if m == nil {
		return
	}
	m.termsCreated.WithLabelValues(origin).Inc()
}

// Collision counts a duplicated name.
func (m *Metrics) Collision() {
	if m == nil {
		return
	}
	m.collisions.Inc()
}

// CollisionResolved counts a term resolved by disambiguation.
func (m *Metrics) CollisionResolved() {
	if m == nil {
		return
	}
	m.collisionsResolved.Inc()
}

// CollisionUnresolved counts a term left ambiguous.
func (m *Metrics) CollisionUnresolved() {
	if m == nil {
		return
	}
	m.collisionsUnresolved.Inc()
}

// Rebuild counts a completed run.
func (m *Metrics) Rebuild() {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
}

// RebuildFailed counts an aborted run.
func (m *Metrics) RebuildFailed() {
	if m == nil {
		return
	}
	m.rebuildFailures.Inc()
}

// LogSummary writes the counter values to the logger at info level.
func (m *Metrics) LogSummary(logger *slog.Logger) {
	if m == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	families, err := m.registry.Gather()
	if err != nil {
		logger.Warn("gather metrics", "error", err)
		return
	}
	attrs := make([]any, 0, len(families)*2)
	for _, fam := range families {
		total := 0.0
		for _, metric := range fam.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		attrs = append(attrs, fam.GetName(), total)
	}
	logger.Info("pipeline summary", attrs...)
}
