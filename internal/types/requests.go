package types

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MaxJobTextLength bounds inline posting text accepted over the API and the queue
const MaxJobTextLength = 200000

// JobSource names where a posting comes from. Inline text wins when both are set.
type JobSource struct {
	JobText string `json:"jobText,omitempty" validate:"required_without=JobURL,max=200000"`
	JobURL  string `json:"jobUrl,omitempty" validate:"omitempty,url"`
}

// AnalyzeRequest represents the request body for /analyze and /analyze/stream.
// A missing profile is analyzed as an empty one.
type AnalyzeRequest struct {
	JobSource
	Profile json.RawMessage `json:"profile,omitempty"`
}

// ExtractRequest represents the request body for /extract
type ExtractRequest struct {
	JobSource
}

// AnalysisRequest is a queued analysis job. The posting comes from inline text, an
// object storage key or a URL, tried in that order.
type AnalysisRequest struct {
	AnalysisID string          `json:"analysisId" validate:"required"`
	SessionID  string          `json:"sessionId,omitempty"`
	JobText    string          `json:"jobText,omitempty" validate:"max=200000"`
	ObjectKey  string          `json:"objectKey,omitempty"`
	URL        string          `json:"url,omitempty" validate:"omitempty,url"`
	Profile    json.RawMessage `json:"profile" validate:"required"`
}

// StatusUpdate is published while a queued analysis progresses
type StatusUpdate struct {
	AnalysisID string             `json:"analysisId"`
	SessionID  string             `json:"sessionId,omitempty"`
	Status     string             `json:"status"`
	Message    string             `json:"message,omitempty"`
	Result     *JobAnalysisResult `json:"result,omitempty"`
	Timestamp  string             `json:"timestamp"`
}

// Status values carried by StatusUpdate
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var validate = validator.New()

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalysisRequest using the validator. At least one posting
// source must be present.
func (r *AnalysisRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.JobText == "" && r.ObjectKey == "" && r.URL == "" {
		return fmt.Errorf("one of jobText, objectKey or url is required")
	}
	return nil
}

// ValidationMessage flattens validator errors into "field: tag" for responses
func ValidationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return fmt.Sprintf("%s - %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}
