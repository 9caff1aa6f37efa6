package ranking

import (
	"testing"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/profile"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredSkills(names ...string) []types.ParsedSkill {
	skills := make([]types.ParsedSkill, len(names))
	for i, n := range names {
		skills[i] = types.ParsedSkill{Name: n, Category: types.CategoryTechnical, IsRequired: true}
	}
	return skills
}

func experienceQual(requirement string) types.Qualification {
	return types.Qualification{Type: types.QualificationExperience, Requirement: requirement, IsRequired: true}
}

func TestCalculateMatchScore_RequirementsScenario(t *testing.T) {
	tax := taxonomy.Default()
	data := parsing.Extract("Requirements: React, Node.js, 3+ years experience", tax)
	p := profile.Normalize(types.UserProfile{
		Skills:          []types.SkillEntry{types.PlainName("react"), types.PlainName("express")},
		YearsExperience: 3,
	}, tax)

	result := CalculateMatchScore(p, data)

	assert.Equal(t, 80, result.Score)
	assert.Equal(t, types.ConfidenceHigh, result.Confidence)
	assert.InDelta(t, 20.0, result.SkillScore, 1e-9)
	assert.Equal(t, 20.0, result.ExperienceScore)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "react", result.Matches[0].Skill)
	assert.Equal(t, "react", result.Matches[0].UserSkill)
	assert.Equal(t, types.MatchExact, result.Matches[0].MatchType)
	assert.Equal(t, "high", result.Matches[0].Relevance)

	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "nodejs", result.Gaps[0].Skill)
	assert.Equal(t, types.PriorityImportant, result.Gaps[0].Priority)
	assert.Equal(t, GapLearningTime, result.Gaps[0].LearningTime)
}

func TestCalculateMatchScore_EmptyPosting(t *testing.T) {
	data := parsing.Extract("", taxonomy.Default())
	result := CalculateMatchScore(profile.NormalizedProfile{}, data)

	assert.Equal(t, 55, result.Score)
	assert.Equal(t, types.ConfidenceLow, result.Confidence)
	assert.Zero(t, result.SkillScore)
	assert.Equal(t, DefaultExperienceScore, result.ExperienceScore)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Gaps)
}

func TestCalculateMatchScore_Table(t *testing.T) {
	tests := []struct {
		name       string
		userSkills []string
		years      float64
		required   []string
		quals      []types.Qualification
		wantScore  int
		wantConf   types.ConfidenceLevel
	}{
		{"All skills, experience met", []string{"go", "sql"}, 5, []string{"go", "sql"}, []types.Qualification{experienceQual("5+ years experience")}, 100, types.ConfidenceHigh},
		{"No skill matches, no requirement", []string{"cobol"}, 0, []string{"go"}, nil, 55, types.ConfidenceLow},
		{"User without skills scores no skill points", nil, 10, []string{"go"}, []types.Qualification{experienceQual("2 years experience")}, 60, types.ConfidenceMedium},
		{"Seventy percent of experience", []string{"go"}, 7, []string{"go", "rust"}, []types.Qualification{experienceQual("10 years experience")}, 75, types.ConfidenceMedium},
		{"Half of experience", []string{"go"}, 5, []string{"go", "rust"}, []types.Qualification{experienceQual("10 years experience")}, 70, types.ConfidenceMedium},
		{"Below half of experience", []string{}, 1, []string{"go"}, []types.Qualification{experienceQual("10 years experience")}, 45, types.ConfidenceLow},
		{"One of three rounds", []string{"go"}, 0, []string{"go", "rust", "java"}, nil, 68, types.ConfidenceMedium},
		{"Substring in either direction", []string{"postgresql database"}, 0, []string{"postgresql"}, nil, 95, types.ConfidenceHigh},
		{"Unparseable experience uses default", []string{"go"}, 0, []string{"go"}, []types.Qualification{{Type: types.QualificationExperience, Requirement: "experience with startups"}}, 95, types.ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.NormalizedProfile{Skills: tt.userSkills, YearsExperience: tt.years}
			data := types.ExtractedJobData{RequiredSkills: requiredSkills(tt.required...), Qualifications: tt.quals}

			result := CalculateMatchScore(p, data)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantConf, result.Confidence)
			if len(tt.userSkills) == 0 {
				assert.Empty(t, result.Matches)
				assert.Empty(t, result.Gaps)
				return
			}
			assert.Equal(t, len(tt.required), len(result.Matches)+len(result.Gaps))
		})
	}
}

func TestCalculateMatchScore_NoUserSkillsNoGaps(t *testing.T) {
	data := types.ExtractedJobData{RequiredSkills: requiredSkills("go", "rust")}

	result := CalculateMatchScore(profile.NormalizedProfile{}, data)

	assert.Equal(t, 55, result.Score)
	assert.Equal(t, types.ConfidenceLow, result.Confidence)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Gaps)
}

func TestCalculateMatchScore_AliasDoesNotWidenMatch(t *testing.T) {
	tax := taxonomy.Default()
	p := profile.Normalize(types.UserProfile{Skills: []types.SkillEntry{types.PlainName("JS")}}, tax)
	data := types.ExtractedJobData{RequiredSkills: requiredSkills("java")}

	result := CalculateMatchScore(p, data)

	assert.Empty(t, result.Matches)
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "java", result.Gaps[0].Skill)
	assert.Equal(t, 55, result.Score)
}

func TestCalculateMatchScore_MonotonicInMatches(t *testing.T) {
	data := types.ExtractedJobData{RequiredSkills: requiredSkills("go", "rust", "java", "sql")}
	userSkills := []string{}
	previous := 0

	for _, s := range []string{"go", "rust", "java", "sql"} {
		userSkills = append(userSkills, s)
		score := CalculateMatchScore(profile.NormalizedProfile{Skills: userSkills}, data).Score
		assert.GreaterOrEqual(t, score, previous)
		assert.GreaterOrEqual(t, score, 40)
		assert.LessOrEqual(t, score, 100)
		previous = score
	}
}

func TestCalculateMatchScore_SkillYearsOnMatch(t *testing.T) {
	p := profile.NormalizedProfile{Skills: []string{"go"}, SkillYears: map[string]int{"go": 4}}
	data := types.ExtractedJobData{RequiredSkills: requiredSkills("go")}

	result := CalculateMatchScore(p, data)
	require.Len(t, result.Matches, 1)
	require.NotNil(t, result.Matches[0].YearsExperience)
	assert.Equal(t, 4, *result.Matches[0].YearsExperience)
}

func TestExperienceScore(t *testing.T) {
	quals := []types.Qualification{experienceQual("3+ years experience")}

	assert.Equal(t, 20.0, ExperienceScore(3, quals))
	assert.Equal(t, 20.0, ExperienceScore(4, quals))
	assert.Equal(t, 15.0, ExperienceScore(2.4, quals))
	assert.Equal(t, 10.0, ExperienceScore(1.5, quals))
	assert.Equal(t, 5.0, ExperienceScore(1, quals))
	assert.Equal(t, DefaultExperienceScore, ExperienceScore(0, nil))
}

func TestExperienceScore_UsesFirstExperienceQualification(t *testing.T) {
	quals := []types.Qualification{
		{Type: types.QualificationEducation, Requirement: "BS with 10 years of schooling"},
		experienceQual("2 years experience"),
		experienceQual("10 years experience"),
	}
	assert.Equal(t, 20.0, ExperienceScore(2, quals))
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score int
		want  types.ConfidenceLevel
	}{
		{100, types.ConfidenceHigh},
		{80, types.ConfidenceHigh},
		{79, types.ConfidenceMedium},
		{60, types.ConfidenceMedium},
		{59, types.ConfidenceLow},
		{40, types.ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.score), "score %d", tt.score)
	}
}

func TestPartitionGaps(t *testing.T) {
	gaps := []types.SkillGap{
		{Skill: "a", Priority: types.PriorityImportant},
		{Skill: "b", Priority: types.PriorityCritical},
		{Skill: "c", Priority: types.PriorityNiceToHave},
		{Skill: "d", Priority: types.PriorityImportant},
	}

	got := PartitionGaps(gaps)
	assert.Len(t, got.Critical, 1)
	assert.Len(t, got.Important, 2)
	assert.Len(t, got.NiceToHave, 1)

	empty := PartitionGaps(nil)
	assert.NotNil(t, empty.Critical)
	assert.NotNil(t, empty.Important)
	assert.NotNil(t, empty.NiceToHave)
}

func TestMatchUserSkill(t *testing.T) {
	tests := []struct {
		job    string
		user   []string
		want   string
		wantOK bool
	}{
		{"react", []string{"React"}, "React", true},
		{"react native", []string{"react"}, "react", true},
		{"sql", []string{"mysql"}, "mysql", true},
		{"nodejs", []string{"express"}, "", false},
		{"go", []string{"", "  "}, "", false},
		{"", []string{"go"}, "", false},
	}

	for _, tt := range tests {
		got, ok := matchUserSkill(tt.job, tt.user)
		assert.Equal(t, tt.wantOK, ok, "job %q", tt.job)
		assert.Equal(t, tt.want, got, "job %q", tt.job)
	}
}
