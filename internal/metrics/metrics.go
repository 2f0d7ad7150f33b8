// Package metrics exposes Prometheus collectors for the tally server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	// RecordsSaved counts archive writes by kind: create, update, base,
	// consecutive.
	RecordsSaved *prometheus.CounterVec
	// SaveFailures counts archive writes that failed.
	SaveFailures prometheus.Counter
	// TallyDispatches counts state transitions through the store.
	TallyDispatches prometheus.Counter
	// DisplayClients tracks connected WebSocket display boards.
	DisplayClients prometheus.Gauge
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RecordsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "serujier_records_saved_total",
			Help: "Archive records written, by save kind.",
		}, []string{"kind"}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serujier_save_failures_total",
			Help: "Archive writes that failed.",
		}),
		TallyDispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serujier_tally_dispatches_total",
			Help: "State transitions applied to the tally store.",
		}),
		DisplayClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serujier_display_clients",
			Help: "Connected display board WebSocket clients.",
		}),
	}

	registry.MustRegister(m.RecordsSaved, m.SaveFailures, m.TallyDispatches, m.DisplayClients)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
