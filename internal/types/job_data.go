// Package types provides type definitions for structured data used throughout the job-match-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillCategory is the coarse classification attached to a parsed skill
type SkillCategory string

const (
	CategoryTechnical     SkillCategory = "technical"
	CategorySoft          SkillCategory = "soft"
	CategoryDomain        SkillCategory = "domain"
	CategoryCertification SkillCategory = "certification"
)

// QualificationType classifies a qualification line
type QualificationType string

const (
	QualificationEducation     QualificationType = "education"
	QualificationExperience    QualificationType = "experience"
	QualificationCertification QualificationType = "certification"
	QualificationOther         QualificationType = "other"
)

// ExtractedJobData is the structured view of a raw job posting
type ExtractedJobData struct {
	Title            string          `json:"title"`
	NormalizedTitle  string          `json:"normalizedTitle"`
	Company          string          `json:"company"`
	Location         string          `json:"location"`
	IsRemote         bool            `json:"isRemote"`
	RequiredSkills   []ParsedSkill   `json:"requiredSkills"`
	PreferredSkills  []ParsedSkill   `json:"preferredSkills"`
	Qualifications   []Qualification `json:"qualifications"`
	Benefits         []string        `json:"benefits"`
	Responsibilities []string        `json:"responsibilities"` // at most 10 entries
	TeamSize         *int            `json:"teamSize,omitempty"`
	Industry         *string         `json:"industry,omitempty"`
	Salary           *SalaryInfo     `json:"salary,omitempty"`
}

// ParsedSkill is a taxonomy skill found in the posting text
type ParsedSkill struct {
	Name          string        `json:"name"`
	Category      SkillCategory `json:"category"`
	IsRequired    bool          `json:"isRequired"`
	YearsRequired *int          `json:"yearsRequired,omitempty"`
	Context       string        `json:"context"` // at most 200 characters
	Alternatives  []string      `json:"alternatives,omitempty"`
}

// Qualification is an education, experience, or certification requirement
type Qualification struct {
	Type         QualificationType `json:"type"`
	Requirement  string            `json:"requirement"`
	IsRequired   bool              `json:"isRequired"`
	Alternatives []string          `json:"alternatives,omitempty"`
}

// SalaryInfo is a compensation range quoted in the posting
type SalaryInfo struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Period   string  `json:"period"` // year, month, or hour
	Raw      string  `json:"raw"`
}
