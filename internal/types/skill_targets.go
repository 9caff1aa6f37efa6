// Package types provides type definitions for structured data used throughout the job-match-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillTargets represents a weighted list of skills a posting asks for
type SkillTargets struct {
	Skills []Skill `json:"skills"`
}

// Skill represents a single target skill with weight and source
type Skill struct {
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Weight   float64       `json:"weight"`
	Source   string        `json:"source"` // required, preferred
}
