package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/db"
	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// ExtractResponse represents the response for /extract
type ExtractResponse struct {
	analyzer.Extraction
	Metadata *ingestion.Metadata `json:"metadata"`
}

// TaxonomyResponse represents the response for /taxonomy
type TaxonomyResponse struct {
	SkillCount int                 `json:"skillCount"`
	Categories []taxonomy.Category `json:"categories"`
}

// ListAnalysesResponse represents the response for /analyses
type ListAnalysesResponse struct {
	Analyses []db.AnalysisSummary `json:"analyses"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// decodeRequest reads a JSON body into v and validates it
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := v.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation error: "+types.ValidationMessage(err))
		return false
	}
	return true
}

// handleAnalyze analyzes a posting given inline or by URL
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	outcome, err := s.runner.Run(r.Context(), pipeline.Source{Text: req.JobText, URL: req.JobURL}, req.Profile, nil)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.analysisResponse(w, outcome)
}

// handleAnalyzeDocument analyzes an uploaded posting document. The multipart form
// carries the document in "file" and the profile JSON in "profile".
func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
	if err := r.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.failure(w, r, &ErrValidation{Field: "file", Message: "required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	src := pipeline.Source{
		Document:    data,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	outcome, err := s.runner.Run(r.Context(), src, []byte(r.FormValue("profile")), nil)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.analysisResponse(w, outcome)
}

func (s *Server) analysisResponse(w http.ResponseWriter, outcome *pipeline.Outcome) {
	if outcome.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	s.jsonResponse(w, http.StatusOK, outcome.Result)
}

// handleAnalyzeStream analyzes a posting and streams progress as Server-Sent Events.
// Events: progress (one per step), result, then complete; or error.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event analyzer.ProgressEvent) {
		if err := sse.WriteEvent(EventProgress, event); err != nil {
			s.logger.Debug("client went away", slog.Any("error", err))
		}
	}

	outcome, err := s.runner.Run(r.Context(), pipeline.Source{Text: req.JobText, URL: req.JobURL}, req.Profile, onProgress)
	if err != nil {
		sse.WriteError(HTTPStatus(err), err.Error())
		sse.WriteComplete("", types.StatusFailed)
		return
	}

	if err := sse.WriteEvent(EventResult, outcome.Result); err != nil {
		s.logger.Warn("failed to stream result", slog.Any("error", err))
		return
	}
	sse.WriteComplete(outcome.Result.AnalysisMetadata.ID, types.StatusCompleted)
}

// handleExtract runs only the extractor on a posting
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	posting, err := s.runner.Ingest(r.Context(), pipeline.Source{Text: req.JobText, URL: req.JobURL})
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Extraction: s.runner.Analyzer().Extract(posting.Text),
		Metadata:   posting.Metadata,
	})
}

// handleListAnalyses lists stored analyses, newest first
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	store := s.runner.Store()
	if store == nil {
		s.failure(w, r, ErrHistoryUnavailable)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	analyses, err := store.ListAnalyses(r.Context(), filter)
	if err != nil {
		s.failure(w, r, fmt.Errorf("failed to list analyses: %w", err))
		return
	}
	if analyses == nil {
		analyses = []db.AnalysisSummary{}
	}

	s.jsonResponse(w, http.StatusOK, ListAnalysesResponse{
		Analyses: analyses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// handleGetAnalysis returns one stored analysis with its full result
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	store := s.runner.Store()
	if store == nil {
		s.failure(w, r, ErrHistoryUnavailable)
		return
	}

	id := r.PathValue("id")
	record, err := store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.failure(w, r, fmt.Errorf("failed to get analysis: %w", err))
		return
	}
	if record == nil {
		s.failure(w, r, fmt.Errorf("%w: %s", ErrNotFound, id))
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleTaxonomy returns the skill taxonomy in scan order
func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	tax := s.runner.Analyzer().Taxonomy()
	s.jsonResponse(w, http.StatusOK, TaxonomyResponse{
		SkillCount: tax.SkillCount(),
		Categories: tax.Categories(),
	})
}

// parseListFilter reads limit, offset, min_score, action and company query parameters
func parseListFilter(r *http.Request) (db.ListFilter, error) {
	q := r.URL.Query()
	filter := db.ListFilter{
		Action:  q.Get("action"),
		Company: q.Get("company"),
		Limit:   db.DefaultListLimit,
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
		{"min_score", &filter.MinScore},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, &ErrValidation{Field: p.name, Message: "must be a non-negative integer"}
		}
		*p.dst = n
	}

	filter.Limit = min(max(filter.Limit, 1), db.MaxListLimit)
	return filter, nil
}
