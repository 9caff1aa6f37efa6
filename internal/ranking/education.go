package ranking

import (
	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// EducationCheck compares the candidate's highest degree with the posting's education requirement
type EducationCheck struct {
	RequiredDegree string `json:"requiredDegree"`
	HeldDegree     string `json:"heldDegree"`
	Required       bool   `json:"required"`
	Met            bool   `json:"met"`
	OneLevelBelow  bool   `json:"oneLevelBelow"`
}

// EducationMeetsRequirement checks the first education qualification that names a
// degree level. The second return value is false when the posting states no degree.
// Qualifications offering "equivalent experience" count as met. The check informs risk
// factors only and never changes the match score.
func EducationMeetsRequirement(p profile.NormalizedProfile, qualifications []types.Qualification) (EducationCheck, bool) {
	for _, q := range qualifications {
		if q.Type != types.QualificationEducation {
			continue
		}
		level := parsing.MinimumDegreeLevel(q.Requirement)
		if level == parsing.DegreeNone {
			continue
		}

		held := p.HighestDegree()
		reqRank := profile.DegreeRank(level)
		heldRank := profile.DegreeRank(held)

		check := EducationCheck{
			RequiredDegree: level,
			HeldDegree:     held,
			Required:       q.IsRequired,
			Met:            heldRank >= reqRank || len(q.Alternatives) > 0,
		}
		if !check.Met && heldRank == reqRank-1 {
			check.OneLevelBelow = true
		}
		return check, true
	}
	return EducationCheck{}, false
}
