package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	textgenRequests *prometheus.CounterVec
	textgenLatency  *prometheus.HistogramVec

	parseStages       *prometheus.CounterVec
	generations       *prometheus.CounterVec
	progressMutations *prometheus.CounterVec
	versionConflicts  *prometheus.CounterVec
	projectionRaised  prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "learnpath"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		textgenRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "textgen_requests_total",
			Help:      "Text generation calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		textgenLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "textgen_request_duration_seconds",
			Help:      "Text generation latency including retries.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		parseStages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roadmap_parse_stage_total",
			Help:      "Which recovery stage produced each parsed roadmap.",
		}, []string{"stage"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roadmap_generations_total",
			Help:      "Roadmap generation attempts by final state.",
		}, []string{"state"}),
		progressMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roadmap_progress_mutations_total",
			Help:      "Progress mutations by outcome.",
		}, []string{"outcome"}),
		versionConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_document_version_conflicts_total",
			Help:      "Conditional path document writes that lost a race.",
		}, []string{"operation"}),
		projectionRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_projection_rows_raised_total",
			Help:      "user_progress rows raised by roadmap progress fan-out.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.httpInflight,
		m.textgenRequests,
		m.textgenLatency,
		m.parseStages,
		m.generations,
		m.progressMutations,
		m.versionConflicts,
		m.projectionRaised,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) InflightInc() {
	if m != nil {
		m.httpInflight.Inc()
	}
}

func (m *Metrics) InflightDec() {
	if m != nil {
		m.httpInflight.Dec()
	}
}

func (m *Metrics) ObserveTextGen(provider, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.textgenRequests.WithLabelValues(provider, outcome).Inc()
	m.textgenLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func (m *Metrics) ObserveParseStage(stage string) {
	if m != nil {
		m.parseStages.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) ObserveGeneration(state string) {
	if m != nil {
		m.generations.WithLabelValues(state).Inc()
	}
}

func (m *Metrics) ObserveProgressMutation(outcome string) {
	if m != nil {
		m.progressMutations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveVersionConflict(operation string) {
	if m != nil {
		m.versionConflicts.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) AddProjectionRaised(n int64) {
	if m != nil && n > 0 {
		m.projectionRaised.Add(float64(n))
	}
}
