package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

// LabeledResult pairs an analysis with the posting it came from (a file path, URL or ID)
type LabeledResult struct {
	Source string
	Result *types.JobAnalysisResult
}

// RankedPosting is one row of a ranking of postings for a single candidate
type RankedPosting struct {
	Source        string                `json:"source"`
	Title         string                `json:"title"`
	Company       string                `json:"company"`
	Score         int                   `json:"score"`
	Confidence    types.ConfidenceLevel `json:"confidence"`
	Action        types.Action          `json:"action"`
	MatchedSkills []string              `json:"matchedSkills"`
	Notes         string                `json:"notes"`
}

// RankPostings orders analyses of several postings by match score, highest first.
// Ties keep the order in which the postings were supplied.
func RankPostings(results []LabeledResult) []RankedPosting {
	ranked := make([]RankedPosting, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		matched := make([]string, 0, len(r.Result.MatchingSkills))
		for _, m := range r.Result.MatchingSkills {
			matched = append(matched, m.Skill)
		}
		required := len(r.Result.MatchingSkills) + len(r.Result.MissingSkills)

		ranked = append(ranked, RankedPosting{
			Source:        r.Source,
			Title:         r.Result.ExtractedData.NormalizedTitle,
			Company:       r.Result.ExtractedData.Company,
			Score:         r.Result.MatchScore,
			Confidence:    r.Result.ConfidenceLevel,
			Action:        r.Result.ApplicationRecommendation.Action,
			MatchedSkills: matched,
			Notes:         generateNotes(matched, required, len(r.Result.RiskFactors)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// generateNotes creates a brief explanation of the ranking.
func generateNotes(matched []string, required, risks int) string {
	var parts []string

	switch {
	case required == 0:
		parts = append(parts, "No required skills extracted")
	case len(matched) == 0:
		parts = append(parts, "No skill matches")
	default:
		coverage := float64(len(matched)) / float64(required)
		strength := "Weak"
		if coverage >= 0.7 {
			strength = "Strong"
		} else if coverage >= 0.4 {
			strength = "Moderate"
		}
		parts = append(parts, fmt.Sprintf("%s skill match (%s)", strength, strings.Join(matched, ", ")))
	}

	if risks > 0 {
		parts = append(parts, fmt.Sprintf("%d risk factor(s)", risks))
	}

	return strings.Join(parts, ". ")
}
