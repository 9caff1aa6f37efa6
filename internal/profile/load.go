// Package profile loads candidate profiles and normalizes them into a canonical shape for scoring.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

// LoadError reports a profile that could not be read or decoded. Path is empty
// for profiles parsed from memory.
type LoadError struct {
	Path  string
	Op    string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("profile: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("profile %s: %s: %v", e.Path, e.Op, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// LoadProfile loads a user profile from a JSON file
func LoadProfile(path string) (*types.UserProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Cause: err}
	}

	p, err := ParseProfile(content)
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		loadErr.Path = path
	}
	return p, err
}

// ParseProfile decodes a user profile from JSON. Malformed skill, work-experience and
// education entries are tolerated; only a document that is not a JSON object fails.
func ParseProfile(data []byte) (*types.UserProfile, error) {
	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &LoadError{Op: "decode", Cause: err}
	}
	return &p, nil
}
