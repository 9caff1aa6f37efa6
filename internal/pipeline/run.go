// Package pipeline provides the high-level orchestration shared by the CLI, the HTTP
// server and the queue worker: posting ingestion, analysis, result caching and
// persistence.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/cache"
	"github.com/jonathan/job-match-analyzer/internal/db"
	"github.com/jonathan/job-match-analyzer/internal/fetch"
	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// StepIngest is reported through the progress callback before the analyzer steps
const StepIngest = "ingest"

// analysisNamespace prefixes cache keys for analysis results
const analysisNamespace = "analysis"

// DefaultConcurrency bounds AnalyzeAll when Options.Concurrency is zero
const DefaultConcurrency = 4

// ErrNoSource is returned when a Source names no posting at all
var ErrNoSource = errors.New("no job posting provided")

// Source names one job posting. The first non-empty field wins, in the order
// Text, Document, Path, URL.
type Source struct {
	Text        string
	Document    []byte
	Name        string // document file name, used to detect its format
	ContentType string
	Path        string
	URL         string
}

// Label returns a human-readable origin for the posting
func (s Source) Label() string {
	switch {
	case s.Text != "":
		return ingestion.SourceInline
	case s.Document != nil:
		return s.Name
	case s.Path != "":
		return s.Path
	default:
		return s.URL
	}
}

// Posting is an ingested job posting ready for analysis
type Posting struct {
	Text     string
	Metadata *ingestion.Metadata
	Label    string
}

// Outcome is the result of one analysis run
type Outcome struct {
	Result *types.JobAnalysisResult
	Cached bool
	Saved  bool
}

// Options configures a Runner. Store and Cache are optional.
type Options struct {
	Taxonomy    *taxonomy.Taxonomy
	Recorder    analyzer.Recorder
	Store       db.Store
	Cache       cache.Store
	Fetcher     *fetch.Fetcher
	Logger      *slog.Logger
	UseBrowser  bool
	Concurrency int
}

// Runner is safe for concurrent use
type Runner struct {
	opts     Options
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
}

// New creates a Runner
func New(opts Options) *Runner {
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	r := &Runner{opts: opts, logger: opts.Logger}
	r.analyzer = r.newAnalyzer(nil)
	return r
}

// Analyzer returns the shared analyzer
func (r *Runner) Analyzer() *analyzer.Analyzer {
	return r.analyzer
}

// Store returns the configured result store, or nil
func (r *Runner) Store() db.Store {
	return r.opts.Store
}

func (r *Runner) newAnalyzer(onProgress analyzer.ProgressCallback) *analyzer.Analyzer {
	return analyzer.New(analyzer.Options{
		Taxonomy:   r.opts.Taxonomy,
		Logger:     r.logger,
		Recorder:   r.opts.Recorder,
		OnProgress: onProgress,
	})
}

// Ingest resolves a Source into cleaned posting text. Inline text is analyzed as
// given; documents, files and URLs go through ingestion.
func (r *Runner) Ingest(ctx context.Context, src Source) (*Posting, error) {
	var (
		text string
		meta *ingestion.Metadata
		err  error
	)

	switch {
	case src.Text != "":
		text = src.Text
		meta = ingestion.NewMetadata(text, "")
		meta.Source = ingestion.SourceInline
		meta.ContentType = ingestion.MIMEPlain
	case src.Document != nil:
		text, meta, err = ingestion.IngestDocument(src.Document, src.Name, src.ContentType)
	case src.Path != "":
		text, meta, err = ingestion.IngestFromFile(ctx, src.Path)
	case src.URL != "":
		text, meta, err = ingestion.IngestFromURL(ctx, src.URL, ingestion.URLOptions{
			Fetcher:    r.opts.Fetcher,
			UseBrowser: r.opts.UseBrowser,
		})
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}

	return &Posting{Text: text, Metadata: meta, Label: src.Label()}, nil
}

// Analyze runs one posting against a raw JSON profile. A cached result for the same
// posting text and profile is returned without re-running the analyzer; fresh results
// are cached and persisted. Persistence failures are logged, never returned.
func (r *Runner) Analyze(ctx context.Context, posting *Posting, rawProfile []byte, onProgress analyzer.ProgressCallback) (*Outcome, error) {
	profileHash := ProfileHash(rawProfile)
	key := cache.Key(analysisNamespace, posting.Metadata.Hash, profileHash)

	if r.opts.Cache != nil {
		if cached, ok := cache.GetJSON[types.JobAnalysisResult](ctx, r.opts.Cache, key); ok {
			r.logger.Debug("analysis served from cache",
				slog.String("id", cached.AnalysisMetadata.ID),
				slog.String("source", posting.Label))
			return &Outcome{Result: &cached, Cached: true}, nil
		}
	}

	a := r.analyzer
	if onProgress != nil {
		a = r.newAnalyzer(onProgress)
	}

	result, err := a.AnalyzeJobJSON(ctx, posting.Text, rawProfile)
	if err != nil {
		return nil, err
	}

	if r.opts.Cache != nil {
		cache.SetJSON(ctx, r.opts.Cache, key, *result)
	}

	outcome := &Outcome{Result: result}
	if r.opts.Store != nil {
		record := db.NewRecord(result, posting.Label, posting.Metadata.Hash, profileHash)
		if err := r.opts.Store.SaveAnalysis(ctx, record); err != nil {
			r.logger.Warn("failed to save analysis",
				slog.String("id", record.ID),
				slog.Any("error", err))
		} else {
			outcome.Saved = true
		}
	}
	return outcome, nil
}

// Run ingests a source and analyzes it
func (r *Runner) Run(ctx context.Context, src Source, rawProfile []byte, onProgress analyzer.ProgressCallback) (*Outcome, error) {
	posting, err := r.Ingest(ctx, src)
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		onProgress(analyzer.ProgressEvent{
			Step:    StepIngest,
			Message: fmt.Sprintf("Ingested %d characters from %s", len(posting.Text), posting.Label),
		})
	}
	return r.Analyze(ctx, posting, rawProfile, onProgress)
}

// AnalyzeAll runs several postings against one profile concurrently and returns the
// results in input order. The first failure cancels the rest.
func (r *Runner) AnalyzeAll(ctx context.Context, sources []Source, rawProfile []byte) ([]ranking.LabeledResult, error) {
	results := make([]ranking.LabeledResult, len(sources))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, src := range sources {
		g.Go(func() error {
			outcome, err := r.Run(gCtx, src, rawProfile, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Label(), err)
			}
			mu.Lock()
			results[i] = ranking.LabeledResult{Source: src.Label(), Result: outcome.Result}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProfileHash fingerprints a raw JSON profile. Insignificant whitespace does not
// change the hash.
func ProfileHash(rawProfile []byte) string {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, rawProfile); err != nil {
		return ingestion.Hash(string(rawProfile))
	}
	return ingestion.Hash(compacted.String())
}
