package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

const namespace = "job_analyzer"

// Worker message outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the Prometheus collectors for analyses, HTTP requests and the
// queue worker. It satisfies analyzer.Recorder.
type Metrics struct {
	analyses        *prometheus.CounterVec
	analysisSeconds prometheus.Histogram
	matchScores     prometheus.Histogram
	httpDuration    *prometheus.SummaryVec
	httpRequests    *prometheus.CounterVec
	messages        *prometheus.CounterVec
	registerer      prometheus.Registerer
}

// NewMetrics registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Job analyses by outcome and recommended action",
			},
			[]string{"outcome", "action"},
		),
		analysisSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing a job posting",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		matchScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Distribution of match scores",
			Buckets:   prometheus.LinearBuckets(40, 10, 7),
		}),
		httpDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		messages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queue_messages_total",
				Help:      "Queue messages handled by the worker, by outcome",
			},
			[]string{"outcome"},
		),
		registerer: reg,
	}
}

// ObserveAnalysis records a successful analysis
func (m *Metrics) ObserveAnalysis(result *types.JobAnalysisResult, d time.Duration) {
	m.analyses.WithLabelValues("success", string(result.ApplicationRecommendation.Action)).Inc()
	m.analysisSeconds.Observe(d.Seconds())
	m.matchScores.Observe(float64(result.MatchScore))
}

// ObserveFailure records a failed analysis
func (m *Metrics) ObserveFailure(d time.Duration) {
	m.analyses.WithLabelValues("failure", "").Inc()
	m.analysisSeconds.Observe(d.Seconds())
}

// ObserveHTTP records one served request. path should be the route pattern, not
// the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.httpRequests.WithLabelValues(method, path, code).Inc()
}

// ObserveMessage records a worker message outcome
func (m *Metrics) ObserveMessage(outcome string) {
	m.messages.WithLabelValues(outcome).Inc()
}

// RegisterCacheStats exposes cache hit and miss counts read from stats at scrape time
func (m *Metrics) RegisterCacheStats(stats func() (hits, misses int64)) {
	factory := promauto.With(m.registerer)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Result cache hits",
	}, func() float64 {
		hits, _ := stats()
		return float64(hits)
	})
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Result cache misses",
	}, func() float64 {
		_, misses := stats()
		return float64(misses)
	})
}
