package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uwazi/transparency-engine/transparency"
)

// Metrics holds the Prometheus collectors exposed at /metrics. Each instance
// owns its registry, so tests can build routers side by side.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uwazi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uwazi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "uwazi",
			Name:      "dataset_records",
			Help:      "Records loaded into the entity store, by entity type.",
		}, []string{"entity"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.records,
	)
	return m
}

// ObserveStore publishes the record counts of store.
func (m *Metrics) ObserveStore(store *transparency.Store) {
	counts := map[string]int{
		"users":               len(store.Users()),
		"projects":            len(store.Projects()),
		"milestones":          len(store.Milestones()),
		"contractors":         len(store.Contractors()),
		"tenders":             len(store.Tenders()),
		"bids":                len(store.Bids()),
		"audits":              len(store.Audits()),
		"transactions":        len(store.Transactions()),
		"flags":               len(store.Flags()),
		"performance_records": len(store.PerformanceRecords()),
		"loans":               len(store.Loans()),
		"taxpayer_funds":      len(store.TaxpayerFunds()),
		"panel_members":       len(store.PanelMembers()),
		"change_logs":         len(store.ChangeLogs()),
	}
	for entity, n := range counts {
		m.records.WithLabelValues(entity).Set(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records one observation per request. Requests that matched no
// route are labelled "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
