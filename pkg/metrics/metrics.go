package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline Prometheus metrics.
var (
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "chat_turns_total",
			Help:      "Total number of chat turns by surface and outcome",
		},
		[]string{"surface", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eli",
			Name:      "embedding_request_duration_seconds",
			Help:      "Query embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RetrievalResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eli",
			Name:      "retrieval_results",
			Help:      "Number of retrieval results returned per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	RateLimitRejectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "rate_limit_rejects_total",
			Help:      "Total number of rate-limited requests",
		},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "tool_calls_total",
			Help:      "Total number of agent tool executions",
		},
		[]string{"tool", "status"},
	)
)

func init() {
	prometheus.MustRegister(ChatTurnsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(RetrievalResults)
	prometheus.MustRegister(RateLimitRejectsTotal)
	prometheus.MustRegister(ToolCallsTotal)
}
