package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DuplicateChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citywatch_duplicate_checks_total",
		Help: "Total number of duplicate checks by scoring path and outcome",
	}, []string{"path", "outcome"})

	DuplicateCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citywatch_duplicate_check_duration_seconds",
		Help:    "Duration of duplicate checks including candidate lookup and scoring",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesConsidered = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citywatch_duplicate_candidates_considered",
		Help:    "Number of candidates within the geographic radius per check",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	CandidateQueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citywatch_candidate_query_errors_total",
		Help: "Total number of failed candidate store queries",
	})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citywatch_embedding_requests_total",
		Help: "Total number of embedding requests by provider and status",
	}, []string{"provider", "status"})

	EmbeddingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "citywatch_embedding_latency_seconds",
		Help:    "Latency of embedding requests by provider",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	ReportsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citywatch_reports_created_total",
		Help: "Total number of reports created by duplicate flag",
	}, []string{"duplicate"})
)
