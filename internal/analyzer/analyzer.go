// Package analyzer runs the full job-match analysis: extraction and profile
// normalization in parallel, then scoring and recommendation.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
	"github.com/jonathan/job-match-analyzer/internal/recommend"
	"github.com/jonathan/job-match-analyzer/internal/skills"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Version is reported in every result's metadata
const Version = "1.0.0"

// Analysis steps reported through ProgressCallback
const (
	StepExtract   = "extract"
	StepNormalize = "normalize"
	StepScore     = "score"
	StepRecommend = "recommend"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step       string `json:"step"`
	Message    string `json:"message"`
	AnalysisID string `json:"analysis_id"`
}

// ProgressCallback is called when analysis progress occurs. It may be called from
// several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Recorder receives the outcome of every analysis
type Recorder interface {
	ObserveAnalysis(result *types.JobAnalysisResult, duration time.Duration)
	ObserveFailure(duration time.Duration)
}

// Options configures an Analyzer. Zero values select the embedded taxonomy and the
// default logger.
type Options struct {
	Taxonomy   *taxonomy.Taxonomy
	Logger     *slog.Logger
	Recorder   Recorder
	OnProgress ProgressCallback
}

// Analyzer is read-only after construction and safe for concurrent use
type Analyzer struct {
	tax        *taxonomy.Taxonomy
	logger     *slog.Logger
	recorder   Recorder
	onProgress ProgressCallback
}

// New creates an Analyzer
func New(opts Options) *Analyzer {
	a := &Analyzer{
		tax:        opts.Taxonomy,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		onProgress: opts.OnProgress,
	}
	if a.tax == nil {
		a.tax = taxonomy.Default()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Taxonomy returns the taxonomy the analyzer extracts skills with
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.tax
}

// Extraction is the extractor's view of a posting without any profile
type Extraction struct {
	Data       types.ExtractedJobData `json:"extractedData"`
	Signals    parsing.PostingSignals `json:"signals"`
	Confidence float64                `json:"extractionConfidence"`
}

// Extract runs only the job text extractor
func (a *Analyzer) Extract(text string) Extraction {
	data := parsing.Extract(text, a.tax)
	return Extraction{
		Data:       data,
		Signals:    parsing.DetectSignals(text, data),
		Confidence: parsing.ExtractionConfidence(data),
	}
}

// AnalyzeJobJSON decodes a raw profile document and analyzes the posting against it.
// A profile that is not a JSON object fails the analysis.
func (a *Analyzer) AnalyzeJobJSON(ctx context.Context, text string, rawProfile []byte) (*types.JobAnalysisResult, error) {
	var p types.UserProfile
	if len(rawProfile) > 0 {
		if err := json.Unmarshal(rawProfile, &p); err != nil {
			return nil, newAnalysisError(fmt.Errorf("%w: %w", ErrInvalidProfile, err))
		}
	}
	return a.AnalyzeJob(ctx, text, p)
}

// AnalyzeJob analyzes a job posting against a candidate profile. Either a complete
// result is returned or a single *AnalysisError; there are no partial results.
func (a *Analyzer) AnalyzeJob(ctx context.Context, text string, userProfile types.UserProfile) (*types.JobAnalysisResult, error) {
	start := time.Now()
	id := uuid.NewString()

	result, err := a.analyze(ctx, id, text, userProfile)
	duration := time.Since(start)
	if err != nil {
		a.logger.Warn("analysis failed", "id", id, "error", err, "duration_ms", duration.Milliseconds())
		if a.recorder != nil {
			a.recorder.ObserveFailure(duration)
		}
		return nil, newAnalysisError(err)
	}

	result.AnalysisMetadata.ProcessingTimeMs = duration.Milliseconds()
	a.logger.Debug("analysis complete",
		"id", id,
		"score", result.MatchScore,
		"action", result.ApplicationRecommendation.Action,
		"duration_ms", duration.Milliseconds())
	if a.recorder != nil {
		a.recorder.ObserveAnalysis(result, duration)
	}
	return result, nil
}

func (a *Analyzer) analyze(ctx context.Context, id, text string, userProfile types.UserProfile) (*types.JobAnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	var extraction Extraction
	var normalized profile.NormalizedProfile
	// each branch owns one variable; g.Wait orders the writes before the reads

	// Extraction branch
	g.Go(func() error {
		a.progress(StepExtract, "Extracting job data", id)
		var e Extraction
		if err := safely("job extraction", func() { e = a.Extract(text) }); err != nil {
			return err
		}
		extraction = e
		return gCtx.Err()
	})

	// Normalization branch
	g.Go(func() error {
		a.progress(StepNormalize, "Normalizing profile", id)
		var p profile.NormalizedProfile
		if err := safely("profile normalization", func() { p = profile.Normalize(userProfile, a.tax) }); err != nil {
			return err
		}
		normalized = p
		return gCtx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result *types.JobAnalysisResult
	err := safely("scoring", func() {
		result = a.assemble(id, text, extraction, normalized)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) assemble(id, text string, e Extraction, p profile.NormalizedProfile) *types.JobAnalysisResult {
	data := e.Data
	signals := e.Signals

	a.progress(StepScore, "Scoring match", id)
	match := ranking.CalculateMatchScore(p, data)

	a.progress(StepRecommend, "Building recommendation", id)
	targets := skills.BuildSkillTargets(data, a.tax)

	return &types.JobAnalysisResult{
		MatchScore:                match.Score,
		ConfidenceLevel:           match.Confidence,
		MatchingSkills:            match.Matches,
		MissingSkills:             match.Gaps,
		SkillGaps:                 ranking.PartitionGaps(match.Gaps),
		SeniorityLevel:            signals.Seniority,
		WorkMode:                  signals.WorkMode,
		JobType:                   signals.JobType,
		RoleComplexity:            recommend.RoleComplexity(data, signals.Seniority),
		CareerProgression:         recommend.CareerProgression(p, signals.Seniority),
		IndustryFit:               recommend.IndustryFit(p, data.Industry),
		CultureFit:                recommend.CultureFitFor(signals.Culture, p),
		ApplicationRecommendation: recommend.RecommendApplication(match.Score, match.Gaps, targets),
		TailoringAdvice:           recommend.TailoringAdvice(match.Matches, data.Industry),
		InterviewPrepTips:         recommend.InterviewPrepTips(match.Matches, data.Industry),
		RiskFactors: recommend.RiskFactors(recommend.RiskInput{
			Data:                 data,
			Profile:              p,
			Match:                match,
			Seniority:            signals.Seniority,
			ExtractionConfidence: e.Confidence,
		}),
		GrowthOpportunities: recommend.GrowthOpportunities(data, p, match.Gaps, signals),
		Salary:              data.Salary,
		ExtractedData:       data,
		AnalysisMetadata: types.AnalysisMetadata{
			ID:                   id,
			TextLength:           utf8.RuneCountInString(text),
			ExtractionConfidence: e.Confidence,
			Version:              Version,
			Timestamp:            time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func (a *Analyzer) progress(step, message, id string) {
	if a.onProgress != nil {
		a.onProgress(ProgressEvent{Step: step, Message: message, AnalysisID: id})
	}
}

// safely runs fn and converts a panic into an error naming the step
func safely(step string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", step, r)
		}
	}()
	fn()
	return nil
}
