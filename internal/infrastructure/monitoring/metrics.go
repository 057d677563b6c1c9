package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smilinTux/forgeprint-sub000/internal/domain/catalog"
)

const namespace = "forgeprint"

// Metrics holds all Prometheus metrics of one server. Each instance owns its
// registry so several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Catalog metrics
	CatalogParses        prometheus.Counter
	CatalogGroups        prometheus.Counter
	CatalogFeatures      prometheus.Counter
	CatalogDroppedGroups prometheus.Counter
	CatalogSkipped       *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec

	// Search and driver metrics
	SearchQueries    prometheus.Counter
	SearchResults    prometheus.Histogram
	DriversGenerated prometheus.Counter

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for JSON reporting.
type Snapshot struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalErrors   int64   `json:"totalErrors"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "route"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "route"},
		),

		// Catalog metrics
		CatalogParses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_parses_total",
			Help:      "Total number of feature catalog parses",
		}),
		CatalogGroups: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_groups_total",
			Help:      "Feature groups emitted by the catalog parser",
		}),
		CatalogFeatures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_features_total",
			Help:      "Features emitted by the catalog parser",
		}),
		CatalogDroppedGroups: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_dropped_groups_total",
			Help:      "Recognized groups dropped for having no features",
		}),
		CatalogSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_skipped_total",
				Help:      "Catalog lines skipped by the parser",
			},
			[]string{"kind"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_lookups_total",
				Help:      "Catalog cache lookups by result",
			},
			[]string{"result"},
		),

		// Search and driver metrics
		SearchQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		}),
		SearchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results per search query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		DriversGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drivers_generated_total",
			Help:      "Total number of generated drivers",
		}),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Server uptime in seconds",
		},
		m.uptime,
	)

	return m
}

func (m *Metrics) uptime() float64 {
	return time.Since(m.startTime).Seconds()
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, route).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, route).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveParse records the outcome of one catalog parse.
func (m *Metrics) ObserveParse(stats catalog.Stats) {
	m.CatalogParses.Inc()
	m.CatalogGroups.Add(float64(stats.Groups))
	m.CatalogFeatures.Add(float64(stats.Features))
	m.CatalogDroppedGroups.Add(float64(stats.DroppedGroups))
	m.CatalogSkipped.WithLabelValues("key").Add(float64(stats.SkippedKeys))
	m.CatalogSkipped.WithLabelValues("item").Add(float64(stats.SkippedItems))
}

// ObserveCacheLookup records a catalog cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordSearch records a search query and its result count.
func (m *Metrics) RecordSearch(results int) {
	m.SearchQueries.Inc()
	m.SearchResults.Observe(float64(results))
}

// IncDriversGenerated increments the generated drivers counter.
func (m *Metrics) IncDriversGenerated() {
	m.DriversGenerated.Inc()
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()
	s.UptimeSeconds = m.uptime()
	return s
}
