package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

const postingText = "Backend Engineer\\nRequirements: Go, PostgreSQL, Docker\\n3+ years experience"

type fakePublisher struct {
	mu      sync.Mutex
	updates []types.StatusUpdate
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, update types.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return f.err
}

func (f *fakePublisher) statuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.updates))
	for i, u := range f.updates {
		out[i] = u.Status
	}
	return out
}

func (f *fakePublisher) last() types.StatusUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

// fakeObjects fails the first failures calls, then serves objects
type fakeObjects struct {
	objects  map[string]*Object
	failures int
	calls    int
}

func (f *fakeObjects) Get(_ context.Context, key string) (*Object, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return obj, nil
}

func newTestWorker(pub Publisher, objects ObjectGetter, metrics *observability.Metrics) *Worker {
	w := New(Deps{
		Runner:    pipeline.New(pipeline.Options{}),
		Publisher: pub,
		Objects:   objects,
		Metrics:   metrics,
	})
	w.backoff = 0
	w.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return w
}

func TestHandle_InlineText(t *testing.T) {
	pub := &fakePublisher{}
	w := newTestWorker(pub, nil, nil)

	body := `{"analysisId": "a-1", "sessionId": "s-1", "jobText": "` + postingText + `", "profile": {"skills": ["go", "docker"], "yearsExperience": 4}}`
	outcome, err := w.Handle(context.Background(), []byte(body))
	require.NoError(t, err)
	assert.Equal(t, observability.OutcomeCompleted, outcome)

	assert.Equal(t, []string{types.StatusProcessing, types.StatusCompleted}, pub.statuses())
	done := pub.last()
	assert.Equal(t, "a-1", done.AnalysisID)
	assert.Equal(t, "s-1", done.SessionID)
	assert.Equal(t, "2026-01-02T03:04:05Z", done.Timestamp)
	require.NotNil(t, done.Result)
	assert.GreaterOrEqual(t, done.Result.MatchScore, 40)
}

func TestHandle_ObjectKey(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		objects     *fakeObjects
		wantOutcome string
		wantCalls   int
		wantErr     string
	}{
		{
			name: "first try",
			objects: &fakeObjects{objects: map[string]*Object{
				"postings/job.txt": {Data: []byte("Go Developer\nRequirements: Go, Kubernetes"), ContentType: ingestion.MIMEPlain},
			}},
			wantOutcome: observability.OutcomeCompleted,
			wantCalls:   1,
		},
		{
			name: "retried after transient failures",
			objects: &fakeObjects{failures: 2, objects: map[string]*Object{
				"postings/job.txt": {Data: []byte("Go Developer\nRequirements: Go"), ContentType: ingestion.MIMEPlain},
			}},
			wantOutcome: observability.OutcomeCompleted,
			wantCalls:   3,
		},
		{
			name:        "gives up",
			objects:     &fakeObjects{failures: 10},
			wantOutcome: observability.OutcomeFailed,
			wantCalls:   DefaultAttempts,
			wantErr:     "after 3 attempts: connection reset",
		},
		{
			name: "unsupported document",
			key:  "postings/job.png",
			objects: &fakeObjects{objects: map[string]*Object{
				"postings/job.png": {Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"},
			}},
			wantOutcome: observability.OutcomeFailed,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			w := newTestWorker(pub, tt.objects, nil)

			key := tt.key
			if key == "" {
				key = "postings/job.txt"
			}
			body := `{"analysisId": "a-2", "objectKey": "` + key + `", "profile": {"skills": ["go"]}}`
			outcome, err := w.Handle(context.Background(), []byte(body))
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantCalls, tt.objects.calls)

			if tt.wantOutcome == observability.OutcomeCompleted {
				require.NoError(t, err)
				assert.Equal(t, types.StatusCompleted, pub.last().Status)
				return
			}
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			assert.Equal(t, []string{types.StatusProcessing, types.StatusFailed}, pub.statuses())
			assert.Equal(t, err.Error(), pub.last().Message)
		})
	}
}

func TestHandle_ObjectKeyWithoutStore(t *testing.T) {
	pub := &fakePublisher{}
	w := newTestWorker(pub, nil, nil)

	outcome, err := w.Handle(context.Background(), []byte(`{"analysisId": "a-3", "objectKey": "x.pdf", "profile": {}}`))
	assert.Equal(t, observability.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, ErrNoObjectStore)
}

func TestHandle_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantUpdates int
	}{
		{"not JSON", `{"analysisId":`, 0},
		{"no id", `{"jobText": "Go", "profile": {}}`, 0},
		{"no posting", `{"analysisId": "a-4", "profile": {}}`, 1},
		{"no profile", `{"analysisId": "a-5", "jobText": "Go"}`, 1},
		{"profile not an object", `{"analysisId": "a-6", "jobText": "Go", "profile": [1, 2]}`, 1},
		{"bad url", `{"analysisId": "a-7", "url": "not a url", "profile": {}}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			w := newTestWorker(pub, nil, nil)

			outcome, err := w.Handle(context.Background(), []byte(tt.body))
			assert.Equal(t, observability.OutcomeRejected, outcome)

			var rejected *RejectedError
			require.True(t, errors.As(err, &rejected), "got %v", err)

			require.Len(t, pub.updates, tt.wantUpdates)
			if tt.wantUpdates > 0 {
				assert.Equal(t, types.StatusFailed, pub.last().Status)
			}
		})
	}
}

func TestHandle_URL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Site Reliability Engineer</h1><ul><li>Go</li><li>Terraform</li></ul></body></html>`))
	}))
	defer page.Close()

	pub := &fakePublisher{}
	w := newTestWorker(pub, nil, nil)

	outcome, err := w.Handle(context.Background(), []byte(`{"analysisId": "a-8", "url": "`+page.URL+`/jobs/1", "profile": {}}`))
	require.NoError(t, err)
	assert.Equal(t, observability.OutcomeCompleted, outcome)

	outcome, err = w.Handle(context.Background(), []byte(`{"analysisId": "a-9", "url": "`+page.URL+`/gone", "profile": {}}`))
	require.Error(t, err)
	assert.Equal(t, observability.OutcomeFailed, outcome)
}

func TestHandle_PublishFailureDoesNotFailAnalysis(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	w := newTestWorker(pub, nil, nil)

	outcome, err := w.Handle(context.Background(), []byte(`{"analysisId": "a-10", "jobText": "Go", "profile": {}}`))
	require.NoError(t, err)
	assert.Equal(t, observability.OutcomeCompleted, outcome)
}

func TestHandle_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := newTestWorker(&fakePublisher{}, nil, observability.NewMetrics(reg))
	ctx := context.Background()

	_, _ = w.Handle(ctx, []byte(`{"analysisId": "a-11", "jobText": "Go", "profile": {}}`))
	_, _ = w.Handle(ctx, []byte(`{"analysisId": "a-12", "jobText": "Rust", "profile": {}}`))
	_, _ = w.Handle(ctx, []byte(`garbage`))

	expected := `
# HELP job_analyzer_queue_messages_total Queue messages handled by the worker, by outcome
# TYPE job_analyzer_queue_messages_total counter
job_analyzer_queue_messages_total{outcome="completed"} 2
job_analyzer_queue_messages_total{outcome="rejected"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "job_analyzer_queue_messages_total"))
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "session.s-1", RoutingKey(types.StatusUpdate{AnalysisID: "a-1", SessionID: "s-1"}))
	assert.Equal(t, "session.a-1", RoutingKey(types.StatusUpdate{AnalysisID: "a-1"}))
}

func TestRetry(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), 3, 0, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = retry(ctx, 3, time.Hour, func() (int, error) { return 0, errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3Objects_Get(t *testing.T) {
	bucket := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/postings/jobs/42.txt" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`))
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Go Developer"))
	}))
	defer bucket.Close()

	objects, err := NewS3Objects(context.Background(), S3Config{
		Bucket:    "postings",
		Endpoint:  bucket.URL,
		Region:    "auto",
		AccessKey: "test",
		SecretKey: "test",
		PathStyle: true,
	})
	require.NoError(t, err)

	obj, err := objects.Get(context.Background(), "jobs/42.txt")
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", string(obj.Data))
	assert.Equal(t, "text/plain", obj.ContentType)

	_, err = objects.Get(context.Background(), "jobs/missing.txt")
	assert.Error(t, err)
}

func TestNewS3Objects_RequiresBucket(t *testing.T) {
	_, err := NewS3Objects(context.Background(), S3Config{Region: "auto"})
	assert.Error(t, err)
}
