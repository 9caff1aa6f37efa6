package db

import (
	"time"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Default and maximum page sizes for ListAnalyses
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// AnalysisRecord is a stored analysis result together with where it came from
type AnalysisRecord struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Company     string                   `json:"company"`
	Score       int                      `json:"score"`
	Confidence  string                   `json:"confidence"`
	Action      string                   `json:"action"`
	Source      string                   `json:"source,omitempty"` // file path, URL, object key or "inline"
	TextHash    string                   `json:"text_hash"`
	ProfileHash string                   `json:"profile_hash"`
	Result      *types.JobAnalysisResult `json:"result"`
	CreatedAt   time.Time                `json:"created_at"`
}

// AnalysisSummary is one row of an analysis listing
type AnalysisSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Score      int       `json:"score"`
	Confidence string    `json:"confidence"`
	Action     string    `json:"action"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListFilter narrows ListAnalyses. Zero values mean no filtering.
type ListFilter struct {
	Limit    int
	Offset   int
	MinScore int
	Action   string
	Company  string
}

// normalizedLimit clamps Limit into [1, MaxListLimit], defaulting to DefaultListLimit
func (f ListFilter) normalizedLimit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return min(f.Limit, MaxListLimit)
}

// NewRecord builds a record for result. The ID is the analysis ID from the result
// metadata.
func NewRecord(result *types.JobAnalysisResult, source, textHash, profileHash string) *AnalysisRecord {
	return &AnalysisRecord{
		ID:          result.AnalysisMetadata.ID,
		Title:       result.ExtractedData.Title,
		Company:     result.ExtractedData.Company,
		Score:       result.MatchScore,
		Confidence:  string(result.ConfidenceLevel),
		Action:      string(result.ApplicationRecommendation.Action),
		Source:      source,
		TextHash:    textHash,
		ProfileHash: profileHash,
		Result:      result,
		CreatedAt:   time.Now().UTC(),
	}
}

// Summary returns the listing view of the record
func (r *AnalysisRecord) Summary() AnalysisSummary {
	return AnalysisSummary{
		ID:         r.ID,
		Title:      r.Title,
		Company:    r.Company,
		Score:      r.Score,
		Confidence: r.Confidence,
		Action:     r.Action,
		Source:     r.Source,
		CreatedAt:  r.CreatedAt,
	}
}
