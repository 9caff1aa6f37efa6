package recommend

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

// maxHighlightedSkills is how many matching skills the advice templates mention
const maxHighlightedSkills = 3

func highlightedSkills(matches []types.SkillMatch) []string {
	n := min(len(matches), maxHighlightedSkills)
	names := make([]string, n)
	for i := range n {
		names[i] = matches[i].Skill
	}
	return names
}

// TailoringAdvice suggests how to adapt a resume to the posting, using up to the
// first three matching skills and the detected industry.
func TailoringAdvice(matches []types.SkillMatch, industry *string) []string {
	advice := make([]string, 0, 4)

	if top := highlightedSkills(matches); len(top) > 0 {
		advice = append(advice, fmt.Sprintf("Lead with your experience in %s", strings.Join(top, ", ")))
		advice = append(advice, fmt.Sprintf("Quantify results you achieved using %s", top[0]))
	} else {
		advice = append(advice, "Highlight transferable skills that relate to the role's requirements")
	}

	if industry != nil && *industry != "" {
		advice = append(advice, fmt.Sprintf("Use %s terminology and mention any %s domain exposure", *industry, *industry))
	}

	advice = append(advice, "Mirror the job description's keywords in your summary")
	return advice
}

// InterviewPrepTips lists interview preparation tips, using up to the first three
// matching skills and the detected industry.
func InterviewPrepTips(matches []types.SkillMatch, industry *string) []string {
	tips := make([]string, 0, 3+maxHighlightedSkills)

	for _, skill := range highlightedSkills(matches) {
		tips = append(tips, fmt.Sprintf("Prepare a detailed example of a project where you used %s", skill))
	}

	if industry != nil && *industry != "" {
		tips = append(tips, fmt.Sprintf("Research current trends and challenges in %s", *industry))
	}

	tips = append(tips,
		"Prepare STAR-format stories for behavioral questions",
		"Research the company's products and recent news",
	)
	return tips
}
