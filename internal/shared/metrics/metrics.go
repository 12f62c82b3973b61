package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	reportsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "readiness_reports_built_total",
		Help: "Total readiness reports built",
	})
	confidenceUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "readiness_confidence_updates_total",
		Help: "Total skill confidence updates",
	})
	historyClearedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "readiness_history_cleared_total",
		Help: "Total history clears",
	})
	historyRecordsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "readiness_history_records_dropped_total",
		Help: "Total persisted records skipped because they failed validation",
	})
	buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "readiness_build_duration_ms",
		Help:    "Report build duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
	})
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readiness_http_requests_total",
		Help: "HTTP requests by route template, method and status",
	}, []string{"route", "method", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "readiness_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds by route template",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"route"})
)

// UnmatchedRoute labels requests that hit no registered route, keeping label cardinality bounded.
const UnmatchedRoute = "unmatched"

func init() {
	registry.MustRegister(
		reportsBuiltTotal,
		confidenceUpdatesTotal,
		historyClearedTotal,
		historyRecordsDroppedTotal,
		buildDuration,
		httpRequestsTotal,
		httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncReportsBuilt increments the built counter.
func IncReportsBuilt() {
	reportsBuiltTotal.Inc()
}

// IncConfidenceUpdates increments the confidence update counter.
func IncConfidenceUpdates() {
	confidenceUpdatesTotal.Inc()
}

// IncHistoryCleared increments the clear counter.
func IncHistoryCleared() {
	historyClearedTotal.Inc()
}

// AddHistoryRecordsDropped adds n skipped records.
func AddHistoryRecordsDropped(n int) {
	if n <= 0 {
		return
	}
	historyRecordsDroppedTotal.Add(float64(n))
}

// ObserveBuildDurationMs records a report build duration in milliseconds.
func ObserveBuildDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	buildDuration.Observe(value)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, durationMs float64) {
	if route == "" {
		route = UnmatchedRoute
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(max(durationMs, 0))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
