// Package telemetry exports cache and index activity as Prometheus metrics
// and keeps a short in-memory history of refreshes for diagnostics.
// Nothing is reported externally unless the metrics endpoint is served.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postindex"

// Metrics holds the Prometheus collectors for the memo cache and the index
// store. It implements memo.Observer and precompute.BuildObserver.
type Metrics struct {
	registry *prometheus.Registry

	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	CacheEvictionsTotal prometheus.Counter
	IndexBuildsTotal    *prometheus.CounterVec
	IndexBuildDuration  prometheus.Histogram
	IndexedPosts        prometheus.Gauge
	IndexedTags         prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry, together with
// the standard Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_hits_total",
			Help:      "Total number of memo cache hits.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_misses_total",
			Help:      "Total number of memo cache misses.",
		}),
		CacheEvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_evictions_total",
			Help:      "Total number of memo entries evicted at capacity.",
		}),
		IndexBuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Total index builds by result (ok, failed).",
		}, []string{"result"}),
		IndexBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Index build latency in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		IndexedPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_posts",
			Help:      "Number of well-formed posts in the current index.",
		}),
		IndexedTags: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_tags",
			Help:      "Number of distinct tags in the current index.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheEvictionsTotal,
		m.IndexBuildsTotal,
		m.IndexBuildDuration,
		m.IndexedPosts,
		m.IndexedTags,
	)
	return m
}

// CacheHit implements memo.Observer.
func (m *Metrics) CacheHit() { m.CacheHitsTotal.Inc() }

// CacheMiss implements memo.Observer.
func (m *Metrics) CacheMiss() { m.CacheMissesTotal.Inc() }

// CacheEvict implements memo.Observer.
func (m *Metrics) CacheEvict() { m.CacheEvictionsTotal.Inc() }

// IndexBuilt implements precompute.BuildObserver.
func (m *Metrics) IndexBuilt(d time.Duration, posts, tags int) {
	m.IndexBuildsTotal.WithLabelValues("ok").Inc()
	m.IndexBuildDuration.Observe(d.Seconds())
	m.IndexedPosts.Set(float64(posts))
	m.IndexedTags.Set(float64(tags))
}

// IndexBuildFailed implements precompute.BuildObserver.
func (m *Metrics) IndexBuildFailed(d time.Duration) {
	m.IndexBuildsTotal.WithLabelValues("failed").Inc()
	m.IndexBuildDuration.Observe(d.Seconds())
	m.IndexedPosts.Set(0)
	m.IndexedTags.Set(0)
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
