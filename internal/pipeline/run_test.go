package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/cache"
	"github.com/jonathan/job-match-analyzer/internal/db"
	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
)

const postingText = `Senior Backend Engineer
Company: Initech

Requirements:
- 5+ years experience
- Go, PostgreSQL, Kubernetes`

var rawProfile = []byte(`{"skills": ["go", "postgresql"], "yearsExperience": 6}`)

func newTestRunner(t *testing.T) (*Runner, db.Store) {
	t.Helper()
	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(Options{Store: store, Cache: cache.NewMemory(cache.Options{})}), store
}

func TestIngest_Sources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posting.md")
	require.NoError(t, os.WriteFile(path, []byte("# Go Engineer\n\n- Kubernetes"), 0644))

	r := New(Options{})
	ctx := context.Background()

	tests := []struct {
		name       string
		src        Source
		wantSource string
		wantLabel  string
	}{
		{"inline text", Source{Text: postingText}, ingestion.SourceInline, ingestion.SourceInline},
		{"uploaded document", Source{Document: []byte("Go Engineer"), Name: "job.txt"}, ingestion.SourceUpload, "job.txt"},
		{"file", Source{Path: path}, ingestion.SourceFile, path},
		{"text wins over path", Source{Text: "Go", Path: path}, ingestion.SourceInline, ingestion.SourceInline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posting, err := r.Ingest(ctx, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, posting.Metadata.Source)
			assert.Equal(t, tt.wantLabel, posting.Label)
			assert.Equal(t, ingestion.Hash(posting.Text), posting.Metadata.Hash)
		})
	}
}

func TestIngest_InlineTextUnchanged(t *testing.T) {
	posting, err := New(Options{}).Ingest(context.Background(), Source{Text: "  Go\r\n\n\n\nRust  "})
	require.NoError(t, err)
	assert.Equal(t, "  Go\r\n\n\n\nRust  ", posting.Text)
}

func TestIngest_NoSource(t *testing.T) {
	_, err := New(Options{}).Ingest(context.Background(), Source{})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestIngest_MissingFile(t *testing.T) {
	_, err := New(Options{}).Ingest(context.Background(), Source{Path: filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze_SavesAndCaches(t *testing.T) {
	r, store := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Run(ctx, Source{Text: postingText}, rawProfile, nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, first.Saved)

	record, err := store.GetAnalysis(ctx, first.Result.AnalysisMetadata.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, first.Result.MatchScore, record.Score)
	assert.Equal(t, ingestion.SourceInline, record.Source)
	assert.Equal(t, ProfileHash(rawProfile), record.ProfileHash)

	// Reformatted profile JSON still hits the cache
	second, err := r.Run(ctx, Source{Text: postingText}, []byte(`{"skills":["go","postgresql"],"yearsExperience":6}`), nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.Saved)
	assert.Equal(t, first.Result.AnalysisMetadata.ID, second.Result.AnalysisMetadata.ID)

	summaries, err := store.ListAnalyses(ctx, db.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestAnalyze_DifferentProfileMisses(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Run(ctx, Source{Text: postingText}, rawProfile, nil)
	require.NoError(t, err)
	second, err := r.Run(ctx, Source{Text: postingText}, []byte(`{"skills": ["cobol"]}`), nil)
	require.NoError(t, err)

	assert.False(t, second.Cached)
	assert.NotEqual(t, first.Result.AnalysisMetadata.ID, second.Result.AnalysisMetadata.ID)
	assert.Greater(t, first.Result.MatchScore, second.Result.MatchScore)
}

func TestAnalyze_InvalidProfile(t *testing.T) {
	r, store := newTestRunner(t)
	ctx := context.Background()

	_, err := r.Run(ctx, Source{Text: postingText}, []byte(`[1, 2]`), nil)
	require.Error(t, err)

	var analysisErr *analyzer.AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Contains(t, err.Error(), "Analysis failed: invalid user profile")

	summaries, err := store.ListAnalyses(ctx, db.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAnalyze_WithoutStoreOrCache(t *testing.T) {
	outcome, err := New(Options{}).Run(context.Background(), Source{Text: postingText}, nil, nil)
	require.NoError(t, err)
	assert.False(t, outcome.Saved)
	assert.False(t, outcome.Cached)
	assert.NotEmpty(t, outcome.Result.AnalysisMetadata.ID)
}

func TestRun_ReportsProgress(t *testing.T) {
	var (
		mu    sync.Mutex
		steps []string
	)
	onProgress := func(e analyzer.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, e.Step)
	}

	_, err := New(Options{}).Run(context.Background(), Source{Text: postingText}, rawProfile, onProgress)
	require.NoError(t, err)

	require.NotEmpty(t, steps)
	assert.Equal(t, StepIngest, steps[0])
	assert.Contains(t, steps, analyzer.StepExtract)
	assert.Contains(t, steps, analyzer.StepNormalize)
	assert.Contains(t, steps, analyzer.StepScore)
	assert.Equal(t, analyzer.StepRecommend, steps[len(steps)-1])
}

func TestAnalyzeAll_KeepsInputOrder(t *testing.T) {
	sources := []Source{
		{Text: "Junior role\nRequirements: COBOL, Fortran, Pascal"},
		{Text: postingText},
		{Text: "Platform Engineer\nRequirements: Go"},
	}

	results, err := New(Options{Concurrency: 2}).AnalyzeAll(context.Background(), sources, rawProfile)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		require.NotNil(t, res.Result, "result %d", i)
		assert.Equal(t, ingestion.SourceInline, res.Source)
	}

	ranked := ranking.RankPostings(results)
	require.Len(t, ranked, 3)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	assert.GreaterOrEqual(t, ranked[1].Score, ranked[2].Score)
}

func TestAnalyzeAll_FailureNamesSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := New(Options{}).AnalyzeAll(context.Background(), []Source{{Text: postingText}, {Path: missing}}, rawProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestProfileHash(t *testing.T) {
	assert.Equal(t, ProfileHash([]byte(`{"a": 1}`)), ProfileHash([]byte("{\n  \"a\":1\n}")))
	assert.NotEqual(t, ProfileHash([]byte(`{"a": 1}`)), ProfileHash([]byte(`{"a": 2}`)))
	assert.Equal(t, ingestion.Hash("not json"), ProfileHash([]byte("not json")))
}
