package analyzer

import "errors"

// ErrInvalidProfile is wrapped by the AnalysisError returned for a profile document
// that cannot be decoded
var ErrInvalidProfile = errors.New("invalid user profile")

// AnalysisError is the single error AnalyzeJob returns. Its message is
// "Analysis failed: " followed by the message of the underlying failure.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	return "Analysis failed: " + e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

func newAnalysisError(err error) *AnalysisError {
	return &AnalysisError{Message: err.Error(), Cause: err}
}
