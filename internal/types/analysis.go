// Package types provides type definitions for structured data used throughout the job-match-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ConfidenceLevel is the coarse tier derived from the match score
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// MatchType describes how a job skill was matched to a user skill
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchSynonym MatchType = "synonym"
	MatchRelated MatchType = "related"
)

// GapPriority ranks a missing skill
type GapPriority string

const (
	PriorityCritical   GapPriority = "critical"
	PriorityImportant  GapPriority = "important"
	PriorityNiceToHave GapPriority = "nice_to_have"
)

// Action is the recommended next step for the candidate
type Action string

const (
	ActionStronglyRecommended     Action = "strongly_recommended"
	ActionRecommended             Action = "recommended"
	ActionConsiderWithPreparation Action = "consider_with_preparation"
	ActionNeedsDevelopment        Action = "needs_development"
	// ActionNotSuitable is part of the published contract but is not produced by the score mapping.
	ActionNotSuitable Action = "not_suitable"
)

// JobAnalysisResult is the full output of a single analysis
type JobAnalysisResult struct {
	MatchScore                int                       `json:"matchScore"`
	ConfidenceLevel           ConfidenceLevel           `json:"confidenceLevel"`
	MatchingSkills            []SkillMatch              `json:"matchingSkills"`
	MissingSkills             []SkillGap                `json:"missingSkills"`
	SkillGaps                 SkillGaps                 `json:"skillGaps"`
	SeniorityLevel            string                    `json:"seniorityLevel"`
	WorkMode                  string                    `json:"workMode"`
	JobType                   string                    `json:"jobType"`
	RoleComplexity            string                    `json:"roleComplexity"`
	CareerProgression         string                    `json:"careerProgression"`
	IndustryFit               string                    `json:"industryFit"`
	CultureFit                CultureFit                `json:"cultureFit"`
	ApplicationRecommendation ApplicationRecommendation `json:"applicationRecommendation"`
	TailoringAdvice           []string                  `json:"tailoringAdvice"`
	InterviewPrepTips         []string                  `json:"interviewPrepTips"`
	RiskFactors               []string                  `json:"riskFactors"`
	GrowthOpportunities       []string                  `json:"growthOpportunities"`
	Salary                    *SalaryInfo               `json:"salary,omitempty"`
	ExtractedData             ExtractedJobData          `json:"extractedData"`
	AnalysisMetadata          AnalysisMetadata          `json:"analysisMetadata"`
}

// SkillMatch records a required skill the candidate already has
type SkillMatch struct {
	Skill           string    `json:"skill"`
	UserSkill       string    `json:"userSkill"`
	MatchType       MatchType `json:"matchType"`
	Relevance       string    `json:"relevance"` // high, medium, or low
	YearsExperience *int      `json:"yearsExperience,omitempty"`
}

// SkillGap records a required skill the candidate is missing
type SkillGap struct {
	Skill        string        `json:"skill"`
	Category     SkillCategory `json:"category"`
	Priority     GapPriority   `json:"priority"`
	LearningTime string        `json:"learningTime"`
	Alternatives []string      `json:"alternatives,omitempty"`
}

// SkillGaps partitions missing skills by priority
type SkillGaps struct {
	Critical   []SkillGap `json:"critical"`
	Important  []SkillGap `json:"important"`
	NiceToHave []SkillGap `json:"niceToHave"`
}

// ApplicationRecommendation is the action tier with its supporting notes
type ApplicationRecommendation struct {
	Action           Action   `json:"action"`
	Reasoning        []string `json:"reasoning"`
	Timeline         string   `json:"timeline"`
	PreparationSteps []string `json:"preparationSteps"`
}

// CultureFit summarizes culture signals found in the posting
type CultureFit struct {
	Signals   []string `json:"signals"`
	Alignment string   `json:"alignment"` // high, medium, low, or unknown
}

// AnalysisMetadata describes how a result was produced
type AnalysisMetadata struct {
	ID                   string  `json:"id,omitempty"`
	ProcessingTimeMs     int64   `json:"processingTime"`
	TextLength           int     `json:"textLength"`
	ExtractionConfidence float64 `json:"extractionConfidence"`
	Version              string  `json:"version"`
	Timestamp            string  `json:"timestamp"` // RFC3339
}
