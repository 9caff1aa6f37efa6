package recommend

import (
	"testing"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
	"github.com/jonathan/job-match-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCareerProgression(t *testing.T) {
	tests := []struct {
		name      string
		years     float64
		titles    []string
		seniority string
		want      string
	}{
		{"Mid candidate, senior role", 3, nil, parsing.SenioritySenior, ProgressionStepUp},
		{"Senior candidate, senior role", 6, nil, parsing.SenioritySenior, ProgressionLateral},
		{"Lead candidate, mid role", 9, nil, parsing.SeniorityMid, ProgressionStepDown},
		{"Titles without years count as entry", 0, []string{"Intern"}, parsing.SeniorityMid, ProgressionStepUp},
		{"Empty profile", 0, nil, parsing.SeniorityMid, ProgressionUnknown},
		{"Unknown seniority", 5, nil, "wizard", ProgressionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.NormalizedProfile{YearsExperience: tt.years, Titles: tt.titles}
			assert.Equal(t, tt.want, CareerProgression(p, tt.seniority))
		})
	}
}

func TestIndustryFit(t *testing.T) {
	p := profile.NormalizedProfile{Industries: []string{"finance"}}

	assert.Equal(t, IndustryFitStrong, IndustryFit(p, strPtr("Finance")))
	assert.Equal(t, IndustryFitNew, IndustryFit(p, strPtr("Healthcare")))
	assert.Equal(t, IndustryFitUnknown, IndustryFit(p, nil))
	assert.Equal(t, IndustryFitUnknown, IndustryFit(profile.NormalizedProfile{}, strPtr("Finance")))
}

func TestRoleComplexity(t *testing.T) {
	skills := func(n int) []types.ParsedSkill { return make([]types.ParsedSkill, n) }

	assert.Equal(t, LevelLow, RoleComplexity(types.ExtractedJobData{RequiredSkills: skills(2)}, parsing.SeniorityMid))
	assert.Equal(t, LevelMedium, RoleComplexity(types.ExtractedJobData{RequiredSkills: skills(3)}, parsing.SenioritySenior))
	assert.Equal(t, LevelHigh, RoleComplexity(types.ExtractedJobData{
		RequiredSkills:   skills(4),
		Responsibilities: make([]string, 4),
	}, parsing.SeniorityLead))
}

func TestCultureFitFor(t *testing.T) {
	signals := []string{"collaborative", "learning culture", "ownership"}

	high := CultureFitFor(signals, profile.NormalizedProfile{Summary: "Team player who loves to mentor juniors"})
	assert.Equal(t, LevelHigh, high.Alignment)
	assert.Equal(t, signals, high.Signals)

	medium := CultureFitFor(signals, profile.NormalizedProfile{Summary: "Owned the billing platform end-to-end"})
	assert.Equal(t, LevelMedium, medium.Alignment)

	low := CultureFitFor(signals, profile.NormalizedProfile{Summary: "Backend engineer"})
	assert.Equal(t, LevelLow, low.Alignment)

	none := CultureFitFor(nil, profile.NormalizedProfile{Summary: "Team player"})
	assert.Equal(t, LevelUnknown, none.Alignment)
	assert.NotNil(t, none.Signals)
}

func TestRiskFactors(t *testing.T) {
	data := types.ExtractedJobData{
		Qualifications: []types.Qualification{
			{Type: types.QualificationExperience, Requirement: "5+ years of experience", IsRequired: true},
			{Type: types.QualificationEducation, Requirement: "Bachelor's degree in Computer Science", IsRequired: true},
		},
	}
	p := profile.NormalizedProfile{YearsExperience: 2}
	match := ranking.MatchResult{
		Matches: []types.SkillMatch{{Skill: "golang"}},
		Gaps:    []types.SkillGap{{Skill: "rust"}, {Skill: "kafka"}},
	}

	risks := RiskFactors(RiskInput{
		Data:                 data,
		Profile:              p,
		Match:                match,
		Seniority:            parsing.SeniorityLead,
		ExtractionConfidence: 0.33,
	})

	assert.Equal(t, []string{
		"Experience below the stated requirement (2 of 5 years)",
		"Missing 2 of 3 required skills",
		"Required bachelor degree not found in profile",
		"Role is lead level, well above your current experience",
		"Posting details are sparse, so this analysis has low confidence",
	}, risks)
}

func TestRiskFactors_None(t *testing.T) {
	risks := RiskFactors(RiskInput{
		Profile:              profile.NormalizedProfile{YearsExperience: 6, Degrees: []string{parsing.DegreeMaster}},
		Seniority:            parsing.SenioritySenior,
		ExtractionConfidence: 1,
	})
	assert.NotNil(t, risks)
	assert.Empty(t, risks)
}

func TestRiskFactors_EducationOneLevelBelow(t *testing.T) {
	risks := RiskFactors(RiskInput{
		Data: types.ExtractedJobData{Qualifications: []types.Qualification{
			{Type: types.QualificationEducation, Requirement: "Master's degree required", IsRequired: true},
		}},
		Profile:              profile.NormalizedProfile{Degrees: []string{parsing.DegreeBachelor}},
		ExtractionConfidence: 1,
	})
	assert.Equal(t, []string{"Education is one level below the master degree requirement"}, risks)
}

func TestGrowthOpportunities(t *testing.T) {
	data := types.ExtractedJobData{
		PreferredSkills: []types.ParsedSkill{{Name: "kubernetes"}, {Name: "golang"}},
		Benefits:        []string{"Health insurance", "Professional development"},
	}
	p := profile.NormalizedProfile{Skills: []string{"go lang"}, CanonicalSkills: []string{"golang"}, YearsExperience: 3}
	gaps := []types.SkillGap{{Skill: "rust"}}
	signals := parsing.PostingSignals{Seniority: parsing.SenioritySenior, Culture: []string{"learning culture"}}

	assert.Equal(t, []string{
		"Develop rust skills on the job",
		"Gain exposure to kubernetes",
		"Step up to a senior level role",
		"Professional development support from the employer",
		"Mentorship within a learning culture",
	}, GrowthOpportunities(data, p, gaps, signals))
}
