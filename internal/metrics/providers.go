package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream provider Prometheus metrics (embedding, LLM, vector index).
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitsearch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitsearch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitsearch",
			Name:      "embedding_retries_total",
			Help:      "Total embedding request retries",
		},
		[]string{"model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitsearch",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	InterpretationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitsearch",
			Name:      "interpretations_total",
			Help:      "Aesthetic interpretations by outcome source",
		},
		[]string{"source"}, // "model" / "fallback" / "none"
	)

	VectorQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitsearch",
			Name:      "vector_queries_total",
			Help:      "Total vector index queries",
		},
		[]string{"status"},
	)
)

var providerMetricsRegistered bool

// RegisterProviderMetrics registers upstream provider metrics. Must be called once from main.
func RegisterProviderMetrics() {
	if providerMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingRetriesTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(InterpretationsTotal)
	prometheus.MustRegister(VectorQueriesTotal)
	providerMetricsRegistered = true
}
