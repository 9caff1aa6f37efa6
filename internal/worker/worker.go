// Package worker consumes queued analysis requests from RabbitMQ, runs them through
// the pipeline and publishes status updates for each one.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
	"github.com/jonathan/job-match-analyzer/internal/schemas"
	"github.com/jonathan/job-match-analyzer/internal/types"
	embedded "github.com/jonathan/job-match-analyzer/schemas"
)

// Defaults for Config
const (
	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
)

// ErrNoObjectStore is returned for objectKey requests when no object store is configured
var ErrNoObjectStore = errors.New("object storage is not configured")

// RejectedError marks a message that can never be processed, so it is not requeued
type RejectedError struct {
	Message string
	Cause   error
}

func (e *RejectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rejected message: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rejected message: %s", e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Cause
}

// Publisher delivers status updates to whoever is watching an analysis
type Publisher interface {
	Publish(ctx context.Context, update types.StatusUpdate) error
}

// Deps are the collaborators a Worker uses. Runner and Publisher are required.
type Deps struct {
	Runner    *pipeline.Runner
	Publisher Publisher
	Objects   ObjectGetter // nil rejects objectKey requests
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Worker handles single analysis requests
type Worker struct {
	runner    *pipeline.Runner
	publisher Publisher
	objects   ObjectGetter
	metrics   *observability.Metrics
	logger    *slog.Logger
	attempts  int
	backoff   time.Duration
	now       func() time.Time
}

// New creates a Worker. Object downloads are retried DefaultAttempts times.
func New(deps Deps) *Worker {
	w := &Worker{
		runner:    deps.Runner,
		publisher: deps.Publisher,
		objects:   deps.Objects,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		attempts:  DefaultAttempts,
		backoff:   DefaultBackoff,
		now:       time.Now,
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Handle processes one message body and returns its outcome, one of the
// observability Outcome values. A non-nil error is also returned for rejected and
// failed messages; rejected ones wrap *RejectedError.
func (w *Worker) Handle(ctx context.Context, body []byte) (string, error) {
	outcome, err := w.handle(ctx, body)
	if w.metrics != nil {
		w.metrics.ObserveMessage(outcome)
	}
	return outcome, err
}

func (w *Worker) handle(ctx context.Context, body []byte) (string, error) {
	var req types.AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return observability.OutcomeRejected, &RejectedError{Message: "invalid JSON", Cause: err}
	}

	if err := w.check(body, &req); err != nil {
		// Without an id nobody can be told about the failure
		if req.AnalysisID != "" {
			w.publish(ctx, &req, types.StatusFailed, err.Error(), nil)
		}
		return observability.OutcomeRejected, err
	}

	logger := w.logger.With(slog.String("analysis_id", req.AnalysisID))
	logger.Info("processing analysis request")
	w.publish(ctx, &req, types.StatusProcessing, "analysis started", nil)

	outcome, err := w.analyze(ctx, &req)
	if err != nil {
		logger.Warn("analysis failed", slog.Any("error", err))
		w.publish(ctx, &req, types.StatusFailed, err.Error(), nil)
		return observability.OutcomeFailed, err
	}

	logger.Info("analysis completed",
		slog.Int("score", outcome.Result.MatchScore),
		slog.Bool("cached", outcome.Cached))
	w.publish(ctx, &req, types.StatusCompleted, "analysis completed", outcome.Result)
	return observability.OutcomeCompleted, nil
}

// check validates the raw message against the published request schema and the
// decoded request against its struct rules
func (w *Worker) check(body []byte, req *types.AnalysisRequest) error {
	if err := schemas.ValidateBytes(embedded.AnalysisRequest, body); err != nil {
		return &RejectedError{Message: "schema validation failed", Cause: err}
	}
	if err := req.Validate(); err != nil {
		return &RejectedError{Message: types.ValidationMessage(err)}
	}
	return nil
}

func (w *Worker) analyze(ctx context.Context, req *types.AnalysisRequest) (*pipeline.Outcome, error) {
	src, err := w.source(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.runner.Run(ctx, src, req.Profile, nil)
}

// source resolves the request's posting. Inline text wins over an object key,
// which wins over a URL.
func (w *Worker) source(ctx context.Context, req *types.AnalysisRequest) (pipeline.Source, error) {
	switch {
	case req.JobText != "":
		return pipeline.Source{Text: req.JobText}, nil
	case req.ObjectKey != "":
		if w.objects == nil {
			return pipeline.Source{}, ErrNoObjectStore
		}
		obj, err := retry(ctx, w.attempts, w.backoff, func() (*Object, error) {
			return w.objects.Get(ctx, req.ObjectKey)
		})
		if err != nil {
			return pipeline.Source{}, fmt.Errorf("failed to download %s: %w", req.ObjectKey, err)
		}
		return pipeline.Source{Document: obj.Data, Name: req.ObjectKey, ContentType: obj.ContentType}, nil
	default:
		return pipeline.Source{URL: req.URL}, nil
	}
}

// publish sends a status update. Delivery failures are logged only.
func (w *Worker) publish(ctx context.Context, req *types.AnalysisRequest, status, message string, result *types.JobAnalysisResult) {
	update := types.StatusUpdate{
		AnalysisID: req.AnalysisID,
		SessionID:  req.SessionID,
		Status:     status,
		Message:    message,
		Result:     result,
		Timestamp:  w.now().UTC().Format(time.RFC3339),
	}
	if err := w.publisher.Publish(ctx, update); err != nil {
		w.logger.Error("failed to publish status update",
			slog.String("analysis_id", req.AnalysisID),
			slog.String("status", status),
			slog.Any("error", err))
	}
}

// RoutingKey is the topic an update is published under: session.<id>, where id is
// the session ID when present and the analysis ID otherwise
func RoutingKey(update types.StatusUpdate) string {
	id := update.SessionID
	if id == "" {
		id = update.AnalysisID
	}
	return "session." + id
}
