// Package metrics provides Prometheus instrumentation for the catalogue service.
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalogue"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"}, // create | query | update | delete | row | raw
	)

	// CascadeOperations counts category status cascades by action and result.
	CascadeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "operations_total",
			Help:      "Category status cascades by action and result.",
		},
		[]string{"action", "result"}, // deactivate | activate | soft-delete | purge | reconcile ; ok | failed
	)

	CascadeProductsAffected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "products_affected_total",
			Help:      "Product rows rewritten by category cascades.",
		},
		[]string{"action"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total read-cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total read-cache misses.",
		},
		[]string{"driver"},
	)
	CacheFlushes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "flushes_total",
		Help:      "Read-cache invalidations triggered by catalog writes.",
	})

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "notifications_total",
			Help:      "Enquiry and contact notification mails by status.",
		},
		[]string{"kind", "status"},
	)
)

// DefaultRegistry holds every collector exposed on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DBQueryDuration,
		CascadeOperations,
		CascadeProductsAffected,
		CacheHits,
		CacheMisses,
		CacheFlushes,
		NotificationsSent,
	)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count and in-flight gauge per request. Routes
// are labelled by their chi pattern so slugs and ids do not explode cardinality.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Handler exposes DefaultRegistry in the Prometheus text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveDBQuery records a query duration:
//
//	defer metrics.ObserveDBQuery("query", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordCascade counts one cascade run and the products it touched.
func RecordCascade(action string, affected int64, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	CascadeOperations.WithLabelValues(action, result).Inc()
	if err == nil && affected > 0 {
		CascadeProductsAffected.WithLabelValues(action).Add(float64(affected))
	}
}
