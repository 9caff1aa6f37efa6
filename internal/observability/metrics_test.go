package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

func TestMetrics_ObserveAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	result := &types.JobAnalysisResult{
		MatchScore:                85,
		ApplicationRecommendation: types.ApplicationRecommendation{Action: types.ActionStronglyRecommended},
	}
	m.ObserveAnalysis(result, 3*time.Millisecond)
	m.ObserveAnalysis(result, 2*time.Millisecond)
	m.ObserveFailure(time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("success", "strongly_recommended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("failure", "")))

	count, err := testutil.GatherAndCount(reg, "job_analyzer_analysis_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveHTTP("POST", "/analyze", 200, 10*time.Millisecond)
	m.ObserveHTTP("POST", "/analyze", 200, 20*time.Millisecond)
	m.ObserveHTTP("GET", "/analyses/{id}", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/analyze", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/analyses/{id}", "404")))
}

func TestMetrics_ObserveMessage(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveMessage(OutcomeCompleted)
	m.ObserveMessage(OutcomeRejected)
	m.ObserveMessage(OutcomeCompleted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues(OutcomeRejected)))
}

func TestMetrics_RegisterCacheStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	hits, misses := int64(0), int64(0)
	m.RegisterCacheStats(func() (int64, int64) { return hits, misses })
	hits, misses = 7, 3

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		if len(f.GetMetric()) == 1 && f.GetMetric()[0].GetCounter() != nil {
			values[f.GetName()] = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 7.0, values["job_analyzer_cache_hits_total"])
	assert.Equal(t, 3.0, values["job_analyzer_cache_misses_total"])
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
