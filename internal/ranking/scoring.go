// Package ranking scores a normalized candidate profile against extracted job data.
package ranking

import (
	"math"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Scoring constants. The base score is a floor: a posting with nothing extracted
// still scores BaseScore plus the default experience points.
const (
	BaseScore              = 40.0
	MaxSkillScore          = 40.0
	DefaultExperienceScore = 15.0
	MaxScore               = 100

	// GapLearningTime is attached to every gap found by the scorer
	GapLearningTime = "1-3 months"
)

// Confidence thresholds on the final score
const (
	HighConfidenceThreshold   = 80
	MediumConfidenceThreshold = 60
)

// MatchResult is the outcome of scoring one profile against one posting
type MatchResult struct {
	Score           int                   `json:"score"`
	Confidence      types.ConfidenceLevel `json:"confidence"`
	SkillScore      float64               `json:"skillScore"`
	ExperienceScore float64               `json:"experienceScore"`
	Matches         []types.SkillMatch    `json:"matches"`
	Gaps            []types.SkillGap      `json:"gaps"`
}

// CalculateMatchScore scores the profile against the posting.
//
// The score is min(100, round(40 + skill + experience)) where the skill part is
// (matched/required)*40 over required skills and the experience part comes from
// ExperienceScore. A required skill matches when it and some user skill contain one
// another, case-insensitively; every miss becomes an important gap. A profile
// without skills gets neither matches nor gaps.
func CalculateMatchScore(p profile.NormalizedProfile, data types.ExtractedJobData) MatchResult {
	result := MatchResult{
		Matches: make([]types.SkillMatch, 0, len(data.RequiredSkills)),
		Gaps:    make([]types.SkillGap, 0),
	}

	// Without user skills there is nothing to compare, so no matches or gaps
	if len(data.RequiredSkills) > 0 && len(p.Skills) > 0 {
		matched := 0
		for _, skill := range data.RequiredSkills {
			if userSkill, ok := matchUserSkill(skill.Name, p.Skills); ok {
				matched++
				result.Matches = append(result.Matches, newSkillMatch(skill, userSkill, p))
				continue
			}
			result.Gaps = append(result.Gaps, newSkillGap(skill))
		}
		result.SkillScore = float64(matched) / float64(len(data.RequiredSkills)) * MaxSkillScore
	}
	result.ExperienceScore = ExperienceScore(p.YearsExperience, data.Qualifications)

	result.Score = int(math.Min(MaxScore, math.Round(BaseScore+result.SkillScore+result.ExperienceScore)))
	result.Confidence = ConfidenceFor(result.Score)
	return result
}

func newSkillMatch(skill types.ParsedSkill, userSkill string, p profile.NormalizedProfile) types.SkillMatch {
	m := types.SkillMatch{
		Skill:     skill.Name,
		UserSkill: userSkill,
		MatchType: types.MatchExact,
		Relevance: "high",
	}
	if years, ok := p.SkillYears[userSkill]; ok {
		m.YearsExperience = &years
	}
	return m
}

func newSkillGap(skill types.ParsedSkill) types.SkillGap {
	return types.SkillGap{
		Skill:        skill.Name,
		Category:     skill.Category,
		Priority:     types.PriorityImportant,
		LearningTime: GapLearningTime,
		Alternatives: skill.Alternatives,
	}
}

// ExperienceScore compares the candidate's years against the first experience
// qualification. Meeting the requirement scores 20, 70% scores 15, 50% scores 10 and
// anything less 5. Without a parseable requirement the score is 15.
func ExperienceScore(userYears float64, qualifications []types.Qualification) float64 {
	required, ok := RequiredExperienceYears(qualifications)
	if !ok {
		return DefaultExperienceScore
	}

	ratio := userYears / float64(required)
	switch {
	case ratio >= 1.0:
		return 20
	case ratio >= 0.7:
		return 15
	case ratio >= 0.5:
		return 10
	default:
		return 5
	}
}

// RequiredExperienceYears parses the years out of the first experience qualification
func RequiredExperienceYears(qualifications []types.Qualification) (int, bool) {
	for _, q := range qualifications {
		if q.Type == types.QualificationExperience {
			return parsing.RequiredYears(q.Requirement)
		}
	}
	return 0, false
}

// ConfidenceFor maps a score to its confidence tier: 80 and above is high,
// 60 and above medium, anything lower low.
func ConfidenceFor(score int) types.ConfidenceLevel {
	switch {
	case score >= HighConfidenceThreshold:
		return types.ConfidenceHigh
	case score >= MediumConfidenceThreshold:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// PartitionGaps splits gaps by priority. Every partition is non-nil.
func PartitionGaps(gaps []types.SkillGap) types.SkillGaps {
	partitioned := types.SkillGaps{
		Critical:   make([]types.SkillGap, 0),
		Important:  make([]types.SkillGap, 0),
		NiceToHave: make([]types.SkillGap, 0),
	}
	for _, gap := range gaps {
		switch gap.Priority {
		case types.PriorityCritical:
			partitioned.Critical = append(partitioned.Critical, gap)
		case types.PriorityNiceToHave:
			partitioned.NiceToHave = append(partitioned.NiceToHave, gap)
		default:
			partitioned.Important = append(partitioned.Important, gap)
		}
	}
	return partitioned
}
