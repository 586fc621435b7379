// Package telemetry provides the Prometheus metrics and OpenTelemetry
// tracing bootstrap for the storefront client.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront stores.
// Pass to components that need to record metrics; a nil *Metrics is a
// valid no-op receiver so stores can run unmetered in tests.
type Metrics struct {
	CatalogRequests *prometheus.CounterVec
	CartMutations   *prometheus.CounterVec
	CartItems       prometheus.Gauge
	SessionActive   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CatalogRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cursoteca",
				Name:      "catalog_requests_total",
				Help:      "Total requests to the remote catalog",
			},
			[]string{"op", "status"}, // op=list/get/create/update/delete, status=ok/error
		),
		CartMutations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cursoteca",
				Name:      "cart_mutations_total",
				Help:      "Total cart mutations",
			},
			[]string{"op"}, // op=add/increment/decrement/remove/clear
		),
		CartItems: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cursoteca",
				Name:      "cart_items",
				Help:      "Number of line items currently in the cart",
			},
		),
		SessionActive: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cursoteca",
				Name:      "session_active",
				Help:      "1 when a session is present, 0 when anonymous",
			},
		),
	}
}

// ObserveCatalogRequest records one remote catalog call outcome.
func (m *Metrics) ObserveCatalogRequest(op, status string) {
	if m == nil {
		return
	}
	m.CatalogRequests.WithLabelValues(op, status).Inc()
}

// ObserveCartMutation records one cart mutation and the resulting item count.
func (m *Metrics) ObserveCartMutation(op string, items int) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
	m.CartItems.Set(float64(items))
}

// SetSessionActive records session presence.
func (m *Metrics) SetSessionActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.SessionActive.Set(1)
	} else {
		m.SessionActive.Set(0)
	}
}
