package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments used by the chat service.
type Metrics struct {
	TurnsTotal       prometheus.Counter
	RetrievalOutcome *prometheus.CounterVec
	CompletionErrors *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

// NewMetrics registers all instruments under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Chat turns served.",
		}),
		RetrievalOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_outcome_total",
			Help:      "Retrieval outcomes by kind (grounded or fallback).",
		}, []string{"outcome"}),
		CompletionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Completion failures by error kind.",
		}, []string{"kind"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live chat sessions.",
		}),
	}
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
