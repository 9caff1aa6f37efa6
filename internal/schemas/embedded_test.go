package schemas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/schemas"
	"github.com/jonathan/job-match-analyzer/internal/types"
	embedded "github.com/jonathan/job-match-analyzer/schemas"
)

const posting = `Job Title: Senior Backend Engineer
Company: Acme Corp
Location: Remote (US)

Requirements:
- 5+ years of experience with Golang and PostgreSQL
- Bachelor's degree in Computer Science
- Experience with Docker and Kubernetes

Nice to have:
- Terraform

Responsibilities:
- Design and build payment services
- Mentor other engineers

Salary: $150,000 - $180,000 per year
`

func TestValidateResult_AnalyzerOutput(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	tests := []struct {
		name    string
		text    string
		profile types.UserProfile
	}{
		{"full posting", posting, types.UserProfile{
			Skills:          []types.SkillEntry{types.PlainName("Go"), types.NamedSkill("Docker").WithYears(3)},
			YearsExperience: 6,
		}},
		{"empty posting and profile", "", types.UserProfile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.AnalyzeJob(context.Background(), tt.text, tt.profile)
			require.NoError(t, err)
			assert.NoError(t, schemas.ValidateResult(result))
		})
	}
}

func TestValidateResult_RejectsOutOfRangeScore(t *testing.T) {
	result, err := analyzer.New(analyzer.Options{}).AnalyzeJob(context.Background(), posting, types.UserProfile{})
	require.NoError(t, err)

	result.MatchScore = 140
	result.ConfidenceLevel = "certain"

	err = schemas.ValidateResult(result)
	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "matchScore")
	assert.Contains(t, fields, "confidenceLevel")
}

func TestValidateBytes_UserProfile(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"mixed skill entries", `{"skills": ["go", {"name": "sql", "years": 2}, {"skillName": "aws"}], "yearsExperience": 4}`, false},
		{"empty object", `{}`, false},
		{"negative years", `{"yearsExperience": -1}`, true},
		{"skills not an array", `{"skills": "go"}`, true},
		{"not an object", `["go"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateBytes(embedded.UserProfile, []byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBytes_AnalysisRequest(t *testing.T) {
	assert.NoError(t, schemas.ValidateBytes(embedded.AnalysisRequest,
		[]byte(`{"analysisId": "a1", "jobText": "Go developer", "profile": {}}`)))
	assert.Error(t, schemas.ValidateBytes(embedded.AnalysisRequest,
		[]byte(`{"analysisId": "a1", "profile": {}}`)), "a posting source is required")
	assert.Error(t, schemas.ValidateBytes(embedded.AnalysisRequest,
		[]byte(`{"jobText": "Go developer", "profile": {}}`)))
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := schemas.ValidateBytes("missing.schema.json", []byte(`{}`))
	var loadErr *schemas.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Schema)
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	assert.Error(t, schemas.ValidateBytes(embedded.UserProfile, []byte(`{not json`)))
}
