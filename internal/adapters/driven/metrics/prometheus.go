// Package metrics records retrieval telemetry with Prometheus.
//
// Scraping /metrics yields, for example:
//
//	microverse_retrievals_total{outcome="ok"} 12
//	microverse_embedding_cache_total{result="hit"} 7
//	microverse_retrieval_duration_seconds_bucket{le="0.05"} 11
//	microverse_corpus_documents 420
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "microverse"

// Recorder implements driven.MetricsRecorder on a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	retrievals *prometheus.CounterVec
	cache      *prometheus.CounterVec
	duration   prometheus.Histogram
	corpus     prometheus.Gauge
}

// Option configures a Recorder.
type Option func(*options)

type options struct {
	buckets        []float64
	runtimeMetrics bool
}

// WithDurationBuckets sets the retrieval latency histogram buckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// WithoutRuntimeMetrics skips the Go and process collectors.
func WithoutRuntimeMetrics() Option {
	return func(o *options) { o.runtimeMetrics = false }
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder(opts ...Option) *Recorder {
	o := options{
		buckets:        []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		runtimeMetrics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Retrievals by outcome.",
		}, []string{"outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Query embedding cache lookups by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval latency including query embedding.",
			Buckets:   o.buckets,
		}),
		corpus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_documents",
			Help:      "Documents scored by the last retrieval.",
		}),
	}

	r.registry.MustRegister(r.retrievals, r.cache, r.duration, r.corpus)
	if o.runtimeMetrics {
		r.registry.MustRegister(collectors.NewGoCollector())
		r.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

// ObserveRetrieval counts a retrieval and records its latency.
func (r *Recorder) ObserveRetrieval(outcome string, elapsed time.Duration) {
	r.retrievals.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveCache counts one cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// SetCorpusSize records the number of documents scored.
func (r *Recorder) SetCorpusSize(n int) {
	r.corpus.Set(float64(n))
}

// Handler returns the scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
