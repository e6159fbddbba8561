package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider and generative model Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seosuite",
			Name:      "provider_requests_total",
			Help:      "Total number of SEO data provider requests",
		},
		[]string{"provider", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seosuite",
			Name:      "provider_request_duration_seconds",
			Help:      "SEO data provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seosuite",
			Name:      "llm_requests_total",
			Help:      "Total number of generative model requests",
		},
		[]string{"model", "task", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seosuite",
			Name:      "llm_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "task"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seosuite",
			Name:      "llm_tokens_total",
			Help:      "Total generative model tokens consumed",
		},
		[]string{"model", "type"},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seosuite",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	UniquenessChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seosuite",
			Name:      "uniqueness_checks_total",
			Help:      "Total uniqueness checks by verdict",
		},
		[]string{"verdict"}, // "unique" / "duplicate"
	)
)

var providerMetricsRegistered bool

// RegisterProviderMetrics registers provider Prometheus metrics. Must be called once from main.
func RegisterProviderMetrics() {
	if providerMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(ResponseCacheTotal)
	prometheus.MustRegister(UniquenessChecksTotal)
	providerMetricsRegistered = true
}
