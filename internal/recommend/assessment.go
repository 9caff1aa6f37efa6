package recommend

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Values reported for career progression
const (
	ProgressionStepUp   = "step_up"
	ProgressionLateral  = "lateral"
	ProgressionStepDown = "step_down"
	ProgressionUnknown  = "unknown"
)

// Values reported for industry fit
const (
	IndustryFitStrong  = "strong"
	IndustryFitNew     = "new_industry"
	IndustryFitUnknown = "unknown"
)

// Values reported for role complexity and culture alignment
const (
	LevelHigh    = "high"
	LevelMedium  = "medium"
	LevelLow     = "low"
	LevelUnknown = "unknown"
)

// lowExtractionConfidence marks postings too sparse to analyze reliably
const lowExtractionConfidence = 0.5

var seniorityRank = map[string]int{
	parsing.SeniorityEntry:     1,
	parsing.SeniorityMid:       2,
	parsing.SenioritySenior:    3,
	parsing.SeniorityLead:      4,
	parsing.SeniorityExecutive: 5,
}

// levelForYears places a candidate on the seniority ladder by years of experience
func levelForYears(years float64) string {
	switch {
	case years >= 12:
		return parsing.SeniorityExecutive
	case years >= 8:
		return parsing.SeniorityLead
	case years >= 5:
		return parsing.SenioritySenior
	case years >= 2:
		return parsing.SeniorityMid
	default:
		return parsing.SeniorityEntry
	}
}

// CareerProgression compares the role's seniority with the level the candidate's
// experience suggests.
func CareerProgression(p profile.NormalizedProfile, seniority string) string {
	role, ok := seniorityRank[seniority]
	if !ok || (p.YearsExperience <= 0 && len(p.Titles) == 0) {
		return ProgressionUnknown
	}
	held := seniorityRank[levelForYears(p.YearsExperience)]
	switch {
	case role > held:
		return ProgressionStepUp
	case role < held:
		return ProgressionStepDown
	default:
		return ProgressionLateral
	}
}

// IndustryFit reports whether the candidate has worked in the posting's industry
func IndustryFit(p profile.NormalizedProfile, industry *string) string {
	if industry == nil || *industry == "" || len(p.Industries) == 0 {
		return IndustryFitUnknown
	}
	if p.HasIndustry(*industry) {
		return IndustryFitStrong
	}
	return IndustryFitNew
}

// RoleComplexity grades the role from its skill and responsibility load and seniority
func RoleComplexity(data types.ExtractedJobData, seniority string) string {
	points := len(data.RequiredSkills) + len(data.Responsibilities)/2
	switch seniority {
	case parsing.SeniorityLead, parsing.SeniorityExecutive:
		points += 4
	case parsing.SenioritySenior:
		points += 2
	}

	switch {
	case points >= 10:
		return LevelHigh
	case points >= 5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// cultureKeywords are the profile summary stems that align with each culture signal
var cultureKeywords = map[string][]string{
	"collaborative":           {"collaborat", "team"},
	"fast-paced":              {"fast-paced", "fast paced", "startup", "scale"},
	"innovative":              {"innovat", "prototype", "research"},
	"work-life balance":       {"balance", "flexib"},
	"diversity and inclusion": {"divers", "inclusi"},
	"learning culture":        {"learn", "mentor", "teach"},
	"ownership":               {"ownership", "owned", "autonom", "end-to-end"},
	"customer focus":          {"customer", "client", "user"},
	"mission-driven":          {"mission", "impact"},
	"remote-friendly":         {"remote", "distributed", "async"},
}

// CultureFitFor compares the posting's culture signals with the candidate's summary.
// Alignment is unknown when either side has nothing to compare.
func CultureFitFor(signals []string, p profile.NormalizedProfile) types.CultureFit {
	fit := types.CultureFit{
		Signals:   append(make([]string, 0, len(signals)), signals...),
		Alignment: LevelUnknown,
	}
	if len(signals) == 0 || p.Summary == "" {
		return fit
	}

	summary := strings.ToLower(p.Summary)
	hits := 0
	for _, signal := range signals {
		for _, kw := range cultureKeywords[signal] {
			if strings.Contains(summary, kw) {
				hits++
				break
			}
		}
	}

	switch {
	case hits >= 2:
		fit.Alignment = LevelHigh
	case hits == 1:
		fit.Alignment = LevelMedium
	default:
		fit.Alignment = LevelLow
	}
	return fit
}

// RiskInput is what RiskFactors needs to know about one analysis
type RiskInput struct {
	Data                 types.ExtractedJobData
	Profile              profile.NormalizedProfile
	Match                ranking.MatchResult
	Seniority            string
	ExtractionConfidence float64
}

// RiskFactors lists concerns a candidate should weigh before applying. The education
// check is reported here and never affects the score.
func RiskFactors(in RiskInput) []string {
	risks := make([]string, 0)

	if required, ok := ranking.RequiredExperienceYears(in.Data.Qualifications); ok && in.Profile.YearsExperience < float64(required) {
		risks = append(risks, fmt.Sprintf("Experience below the stated requirement (%g of %d years)", in.Profile.YearsExperience, required))
	}

	total := len(in.Match.Matches) + len(in.Match.Gaps)
	if total > 0 && len(in.Match.Gaps)*2 > total {
		risks = append(risks, fmt.Sprintf("Missing %d of %d required skills", len(in.Match.Gaps), total))
	}

	if check, ok := ranking.EducationMeetsRequirement(in.Profile, in.Data.Qualifications); ok && !check.Met {
		switch {
		case check.OneLevelBelow:
			risks = append(risks, fmt.Sprintf("Education is one level below the %s degree requirement", check.RequiredDegree))
		case check.Required:
			risks = append(risks, fmt.Sprintf("Required %s degree not found in profile", check.RequiredDegree))
		default:
			risks = append(risks, fmt.Sprintf("Preferred %s degree not found in profile", check.RequiredDegree))
		}
	}

	if role, ok := seniorityRank[in.Seniority]; ok && in.Profile.YearsExperience > 0 {
		if role-seniorityRank[levelForYears(in.Profile.YearsExperience)] >= 2 {
			risks = append(risks, fmt.Sprintf("Role is %s level, well above your current experience", in.Seniority))
		}
	}

	if in.ExtractionConfidence < lowExtractionConfidence {
		risks = append(risks, "Posting details are sparse, so this analysis has low confidence")
	}

	return risks
}

// maxGrowthSkills bounds how many unfamiliar skills are listed as growth opportunities
const maxGrowthSkills = 3

// GrowthOpportunities lists what the candidate could gain from the role
func GrowthOpportunities(data types.ExtractedJobData, p profile.NormalizedProfile, gaps []types.SkillGap, signals parsing.PostingSignals) []string {
	growth := make([]string, 0)

	for i, gap := range gaps {
		if i == maxGrowthSkills {
			break
		}
		growth = append(growth, fmt.Sprintf("Develop %s skills on the job", gap.Skill))
	}

	known := make(map[string]bool, len(p.CanonicalSkills))
	for _, s := range p.CanonicalSkills {
		known[s] = true
	}
	added := 0
	for _, s := range data.PreferredSkills {
		if added == maxGrowthSkills {
			break
		}
		if !known[s.Name] {
			growth = append(growth, fmt.Sprintf("Gain exposure to %s", s.Name))
			added++
		}
	}

	if CareerProgression(p, signals.Seniority) == ProgressionStepUp {
		growth = append(growth, fmt.Sprintf("Step up to a %s level role", signals.Seniority))
	}

	for _, b := range data.Benefits {
		if b == "Professional development" || b == "Tuition reimbursement" {
			growth = append(growth, fmt.Sprintf("%s support from the employer", b))
		}
	}

	for _, c := range signals.Culture {
		if c == "learning culture" {
			growth = append(growth, "Mentorship within a learning culture")
			break
		}
	}

	return growth
}
