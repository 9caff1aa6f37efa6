// Package recommend turns a match score and its skill gaps into an application
// recommendation plus the advice that goes with it.
package recommend

import (
	"fmt"

	"github.com/jonathan/job-match-analyzer/internal/skills"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Score thresholds for the recommendation tiers
const (
	StronglyRecommendedThreshold = 80
	RecommendedThreshold         = 65
	ConsiderThreshold            = 50

	// maxPreparationGaps bounds how many gaps are turned into preparation steps
	maxPreparationGaps = 3
)

type tier struct {
	action    types.Action
	timeline  string
	reasoning []string
	steps     []string
}

var (
	tierStronglyRecommended = tier{
		action:   types.ActionStronglyRecommended,
		timeline: "Apply immediately",
		reasoning: []string{
			"Your skills closely match the core requirements",
			"Your experience level fits the role",
		},
		steps: []string{
			"Tailor your resume to highlight the matching skills",
			"Prepare concrete examples of relevant projects",
		},
	}
	tierRecommended = tier{
		action:   types.ActionRecommended,
		timeline: "Apply within 1-2 weeks",
		reasoning: []string{
			"You meet most of the core requirements",
			"A few gaps can be addressed in your application",
		},
		steps: []string{
			"Emphasize transferable experience for the gaps",
			"Review the role's main technologies before interviewing",
		},
	}
	tierConsider = tier{
		action:   types.ActionConsiderWithPreparation,
		timeline: "Apply after 2-4 weeks of preparation",
		reasoning: []string{
			"You match part of the core requirements",
			"Targeted preparation would strengthen your application",
		},
		steps: []string{
			"Build a small project using the missing skills",
			"Highlight learning agility and related experience",
		},
	}
	tierNeedsDevelopment = tier{
		action:   types.ActionNeedsDevelopment,
		timeline: "Revisit in 3-6 months",
		reasoning: []string{
			"Significant skill gaps against the core requirements",
			"Consider roles that build toward this position",
		},
		steps: []string{
			"Create a learning plan for the missing skills",
			"Look for projects or courses that provide hands-on practice",
		},
	}
)

func tierFor(score int) tier {
	switch {
	case score >= StronglyRecommendedThreshold:
		return tierStronglyRecommended
	case score >= RecommendedThreshold:
		return tierRecommended
	case score >= ConsiderThreshold:
		return tierConsider
	default:
		return tierNeedsDevelopment
	}
}

// ActionFor maps a match score to its action tier. types.ActionNotSuitable is
// never returned.
func ActionFor(score int) types.Action {
	return tierFor(score).action
}

// RecommendApplication builds the recommendation for a score. Preparation steps start
// with the highest-weighted gaps, then the tier's fixed steps.
func RecommendApplication(score int, gaps []types.SkillGap, targets types.SkillTargets) types.ApplicationRecommendation {
	t := tierFor(score)

	steps := make([]string, 0, maxPreparationGaps+len(t.steps))
	for _, gap := range skills.TopGaps(gaps, targets, maxPreparationGaps) {
		steps = append(steps, fmt.Sprintf("Build working knowledge of %s (%s)", gap.Skill, gap.LearningTime))
	}
	steps = append(steps, t.steps...)

	return types.ApplicationRecommendation{
		Action:           t.action,
		Reasoning:        append([]string(nil), t.reasoning...),
		Timeline:         t.timeline,
		PreparationSteps: steps,
	}
}
