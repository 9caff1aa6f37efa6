package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "jobUrl", Message: "url"}
	assert.Equal(t, "validation error: jobUrl - url", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no source", pipeline.ErrNoSource, http.StatusBadRequest},
		{"invalid profile", &analyzer.AnalysisError{Message: "x", Cause: fmt.Errorf("%w: bad", analyzer.ErrInvalidProfile)}, http.StatusBadRequest},
		{"other analysis failure", &analyzer.AnalysisError{Message: "scoring: boom", Cause: errors.New("scoring: boom")}, http.StatusInternalServerError},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unsupported format", &ingestion.UnsupportedFormatError{Format: "image/png"}, http.StatusUnsupportedMediaType},
		{"wrapped unsupported format", fmt.Errorf("upload: %w", &ingestion.UnsupportedFormatError{Format: ".xlsx"}), http.StatusUnsupportedMediaType},
		{"extraction failed", &ingestion.ExtractionError{Format: ingestion.MIMEPDF, Cause: errors.New("corrupt")}, http.StatusUnprocessableEntity},
		{"fetch failed", fmt.Errorf("%w: timeout", ingestion.ErrHTTPRequestFailed), http.StatusBadGateway},
		{"no history", ErrHistoryUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
