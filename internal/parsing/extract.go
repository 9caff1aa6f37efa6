package parsing

import (
	"math"

	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// Extract parses a raw job posting into ExtractedJobData. It never fails: every field
// has a fallback, so empty or malformed text yields the default record.
func Extract(text string, tax *taxonomy.Taxonomy) types.ExtractedJobData {
	title := ExtractTitle(text)
	location := ExtractLocationInfo(text)
	required, preferred := ExtractSkills(text, tax)

	return types.ExtractedJobData{
		Title:            title,
		NormalizedTitle:  NormalizeTitle(title),
		Company:          ExtractCompany(text),
		Location:         location.Location,
		IsRemote:         location.IsRemote,
		RequiredSkills:   required,
		PreferredSkills:  preferred,
		Qualifications:   ExtractQualifications(text),
		Benefits:         ExtractBenefits(text),
		Responsibilities: ExtractResponsibilities(text),
		TeamSize:         ExtractTeamSize(text),
		Industry:         DetectIndustry(text),
		Salary:           ExtractSalary(text),
	}
}

// PostingSignals are the classifications derived from a posting alongside its extracted data
type PostingSignals struct {
	Seniority string   `json:"seniority"`
	WorkMode  string   `json:"workMode"`
	JobType   string   `json:"jobType"`
	Culture   []string `json:"culture"`
}

// DetectSignals classifies seniority, work mode, job type and culture for a posting
func DetectSignals(text string, data types.ExtractedJobData) PostingSignals {
	return PostingSignals{
		Seniority: DetectSeniority(data.Title, MaxRequiredYears(data.Qualifications)),
		WorkMode:  DetectWorkMode(text, data.IsRemote),
		JobType:   DetectJobType(data.Title, text),
		Culture:   DetectCultureSignals(text),
	}
}

// ExtractionConfidence is the fraction of core fields that were found rather than
// defaulted: title, company, location, skills, qualifications and responsibilities.
// The value is rounded to two decimals.
func ExtractionConfidence(data types.ExtractedJobData) float64 {
	found := []bool{
		data.Title != DefaultTitle,
		data.Company != DefaultCompany,
		data.Location != LocationUnspecified,
		len(data.RequiredSkills)+len(data.PreferredSkills) > 0,
		len(data.Qualifications) > 0,
		len(data.Responsibilities) > 0,
	}
	hits := 0
	for _, ok := range found {
		if ok {
			hits++
		}
	}
	return math.Round(float64(hits)/float64(len(found))*100) / 100
}
