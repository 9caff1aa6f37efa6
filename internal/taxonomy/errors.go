package taxonomy

import "fmt"

// LoadError represents a failure to read or parse a taxonomy file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a structurally invalid taxonomy document
type ValidationError struct {
	Category string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("taxonomy validation error in category %s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("taxonomy validation error: %s", e.Message)
}
