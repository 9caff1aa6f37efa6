package parsing

import (
	"regexp"
	"strconv"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

const maxRequirementLen = 200

// qualificationFamily is one regex family mapped to a qualification type
type qualificationFamily struct {
	kind    types.QualificationType
	pattern *regexp.Regexp
}

var qualificationFamilies = []qualificationFamily{
	{types.QualificationEducation, regexp.MustCompile(`(?i)\b(?:bachelor'?s?|b\.[sa]\.|master'?s\b|master of|m\.s\.|ph\.?\s?d|doctorate|associate'?s degree|mba\b|high school diploma|ged\b|degree in|college degree|university degree|(?:bs|ba|ms|ma)(?:/(?:bs|ba|ms|ma|phd))?\s+in\b)`)},
	{types.QualificationExperience, regexp.MustCompile(`(?i)\b\d{1,2}\s*\+?\s*(?:(?:-|–|to)\s*\d{1,2}\s*\+?\s*)?(?:years?|yrs?)\b[^.\n;]{0,40}?\bexperience\b`)},
	{types.QualificationExperience, regexp.MustCompile(`(?i)\bexperience\b[^.\n;]{0,30}?\b\d{1,2}\s*\+?\s*(?:years?|yrs?)\b`)},
	{types.QualificationExperience, regexp.MustCompile(`(?i)\b(?:at least|minimum(?: of)?)\s+\d{1,2}\s*\+?\s*(?:years?|yrs?)\b`)},
	{types.QualificationCertification, regexp.MustCompile(`(?i)\b(?:certified|certification|certificate|licensed|licensure|license|pmp|cpa|cissp|cfa|shrm-c?p)\b`)},
}

var equivalentExperience = regexp.MustCompile(`(?i)\bor\s+equivalent\s+(?:practical\s+|work\s+|professional\s+|industry\s+)?experience\b`)

// ExtractQualifications finds education, experience and certification requirements.
// Each qualification carries its enclosing sentence; it is required only when the
// sentence holds a required indicator and no preferred indicator.
func ExtractQualifications(text string) []types.Qualification {
	qualifications := make([]types.Qualification, 0)
	type key struct {
		kind        types.QualificationType
		requirement string
	}
	seen := make(map[key]bool)

	for _, family := range qualificationFamilies {
		for _, loc := range family.pattern.FindAllStringIndex(text, -1) {
			sentence := truncateRunes(sentenceAt(text, loc[0]), maxRequirementLen)
			if sentence == "" {
				continue
			}
			k := key{family.kind, sentence}
			if seen[k] {
				continue
			}
			seen[k] = true

			q := types.Qualification{
				Type:        family.kind,
				Requirement: sentence,
				IsRequired:  requiredIndicator.MatchString(sentence) && !preferredIndicator.MatchString(sentence),
			}
			if equivalentExperience.MatchString(sentence) {
				q.Alternatives = []string{"equivalent experience"}
			}
			qualifications = append(qualifications, q)
		}
	}

	return qualifications
}

// RequiredYears parses the first "N years" figure out of a requirement string.
// A range such as "3-5 years" yields its lower bound.
func RequiredYears(requirement string) (int, bool) {
	m := yearsPattern.FindStringSubmatch(requirement)
	if m == nil {
		return 0, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil || years <= 0 {
		return 0, false
	}
	return years, true
}

// MaxRequiredYears returns the largest year figure across experience qualifications
func MaxRequiredYears(qualifications []types.Qualification) int {
	maxYears := 0
	for _, q := range qualifications {
		if q.Type != types.QualificationExperience {
			continue
		}
		if years, ok := RequiredYears(q.Requirement); ok && years > maxYears {
			maxYears = years
		}
	}
	return maxYears
}

// Degree levels, lowest first
const (
	DegreeNone       = ""
	DegreeHighSchool = "high_school"
	DegreeAssociate  = "associate"
	DegreeBachelor   = "bachelor"
	DegreeMaster     = "master"
	DegreePhD        = "phd"
)

// degreePatterns is ordered from the highest level down
var degreePatterns = []struct {
	level   string
	pattern *regexp.Regexp
}{
	{DegreePhD, regexp.MustCompile(`(?i)\b(?:ph\.?\s?d|doctorate|doctoral|doctor of)\b`)},
	{DegreeMaster, regexp.MustCompile(`(?i)\b(?:master'?s?|master of|m\.s\.|ms|ma|mba|m\.eng)\b`)},
	{DegreeBachelor, regexp.MustCompile(`(?i)\b(?:bachelor'?s?|bachelor of|b\.[sa]\.|bs|ba|bsc|b\.eng|undergraduate degree|college degree|university degree)\b`)},
	{DegreeAssociate, regexp.MustCompile(`(?i)\bassociate'?s?\s+(?:degree|of)\b`)},
	{DegreeHighSchool, regexp.MustCompile(`(?i)\b(?:high school|ged|secondary school)\b`)},
}

// DegreeLevel returns the highest degree level mentioned in text, or DegreeNone
func DegreeLevel(text string) string {
	for _, d := range degreePatterns {
		if d.pattern.MatchString(text) {
			return d.level
		}
	}
	return DegreeNone
}

// MinimumDegreeLevel returns the lowest degree level mentioned in text, so that
// "BS or MS in Computer Science" requires a bachelor's.
func MinimumDegreeLevel(text string) string {
	for i := len(degreePatterns) - 1; i >= 0; i-- {
		if degreePatterns[i].pattern.MatchString(text) {
			return degreePatterns[i].level
		}
	}
	return DegreeNone
}
