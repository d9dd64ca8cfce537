package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "quote_widget"

// Metrics holds the widget's Prometheus collectors.
type Metrics struct {
	ProviderFetches     *prometheus.CounterVec
	RepeatRetries       prometheus.Counter
	DroppedRequests     prometheus.Counter
	HistoryResets       prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	ClipboardFailures   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ProviderFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_fetches_total",
			Help:      "Quote fetch attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		RepeatRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "repeat_retries_total",
			Help:      "Extra fetches made because the last shown quote repeated.",
		}),
		DroppedRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dropped_requests_total",
			Help:      "Quote requests dropped because a fetch was already in flight.",
		}),
		HistoryResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "history_resets_total",
			Help:      "Times the recent history exceeded its cap and was cleared.",
		}),
		PersistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persistence_failures_total",
			Help:      "Favorites storage failures by operation.",
		}, []string{"operation"}),
		ClipboardFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "clipboard_failures_total",
			Help:      "Clipboard write failures by mechanism.",
		}, []string{"mechanism"}),
	}
}

func (m *Metrics) providerFetch(provider, outcome string) {
	m.ProviderFetches.WithLabelValues(provider, outcome).Inc()
}
