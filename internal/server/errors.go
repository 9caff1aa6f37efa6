package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
)

var (
	// ErrNotFound indicates a stored analysis does not exist
	ErrNotFound = errors.New("analysis not found")
	// ErrHistoryUnavailable indicates no result store is configured
	ErrHistoryUnavailable = errors.New("analysis history is not configured")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unsupportedErr *ingestion.UnsupportedFormatError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, pipeline.ErrNoSource),
		errors.Is(err, analyzer.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrHistoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
