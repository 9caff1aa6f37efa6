package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrHTTPRequestFailed is returned when fetching a posting fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text can be pulled from a document
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// UnsupportedFormatError is returned for documents that are not text, markdown,
// HTML, PDF or DOCX
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Format)
}

// ExtractionError wraps a failure to read a document of a supported format
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrContentExtractionFailed) match any ExtractionError
func (e *ExtractionError) Is(target error) bool {
	return target == ErrContentExtractionFailed
}
