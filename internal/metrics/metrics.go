package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "thriftstore"

// Rejection reasons for line items that could not be committed
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonReference         = "reference"
	ReasonError             = "error"
)

// Metrics holds the service's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	salesCompleted prometheus.Counter
	linesCommitted prometheus.Counter
	linesRejected  *prometheus.CounterVec
	revenueCents   prometheus.Counter
	restocks       prometheus.Counter
	commitDuration prometheus.Histogram
	httpRequests   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		salesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_completed_total",
			Help:      "Sales finalized with at least one committed line item.",
		}),
		linesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_items_committed_total",
			Help:      "Line items committed to a transaction.",
		}),
		linesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_items_rejected_total",
			Help:      "Line items that could not be committed.",
		}, []string{"reason"}),
		revenueCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_cents_total",
			Help:      "Committed sales revenue in cents.",
		}),
		restocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restocks_total",
			Help:      "Inventory additions.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "line_item_commit_seconds",
			Help:      "Time taken to commit a single line item.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.salesCompleted,
		m.linesCommitted,
		m.linesRejected,
		m.revenueCents,
		m.restocks,
		m.commitDuration,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SaleCompleted records a finalized sale and its committed total
func (m *Metrics) SaleCompleted(totalCents int64) {
	if m == nil {
		return
	}
	m.salesCompleted.Inc()
	m.revenueCents.Add(float64(totalCents))
}

// LineCommitted records a committed line item and how long the commit took
func (m *Metrics) LineCommitted(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.linesCommitted.Inc()
	m.commitDuration.Observe(elapsed.Seconds())
}

// LineRejected records a line item that failed to commit
func (m *Metrics) LineRejected(reason string) {
	if m == nil {
		return
	}
	m.linesRejected.WithLabelValues(reason).Inc()
}

// Restocked records an inventory addition
func (m *Metrics) Restocked() {
	if m == nil {
		return
	}
	m.restocks.Inc()
}

// HTTPRequest records a served API request
func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// NewMux returns the operational HTTP mux: /metrics from the registry and
// /healthz from the given handler
func (m *Metrics) NewMux(health http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", health)
	return mux
}
