package parsing

import (
	"regexp"
	"strings"
)

// DefaultCompany is returned when no company candidate is found
const DefaultCompany = "Technology Company"

var (
	companyLabel  = regexp.MustCompile(`(?im)^\s*(?:\*\*)?(?:company(?:\s+name)?|employer|organization)\s*:\s*(?:\*\*)?\s*([^\n]+?)\s*$`)
	companyJoinAt = regexp.MustCompile(`\b(?:[Jj]oin|[Aa]t)\s+([A-Z][\w&'-]*(?:\s+[A-Z][\w&'-]*){0,3})`)
	companyHiring = regexp.MustCompile(`\b([A-Z][\w&'-]*(?:\s+[A-Z][\w&'-]*){0,3})\s+is\s+(?:hiring|looking|seeking|growing)\b`)
	companyAbout  = regexp.MustCompile(`(?i)\babout\s+([^:\n]{2,50}):`)
)

var companyMatchers = []matcher{
	regexMatcher(companyLabel),
	regexMatcher(companyJoinAt),
	regexMatcher(companyHiring),
	regexMatcher(companyAbout),
}

// genericCompanyPhrases are captures that name a section or pronoun rather than a company
var genericCompanyPhrases = map[string]bool{
	"us": true, "we": true, "you": true, "it": true, "them": true,
	"the role": true, "the job": true, "the team": true, "the position": true, "the opportunity": true,
	"this role": true, "this position": true, "this job": true, "the company": true,
	"our team": true, "our company": true, "our mission": true, "the candidate": true,
}

func acceptCompany(candidate string) bool {
	n := runeLen(candidate)
	if n < 2 || n >= 100 {
		return false
	}
	return !genericCompanyPhrases[strings.ToLower(candidate)]
}

// ExtractCompany returns the hiring company. Candidates are tried in order: an explicit
// label, "join/at <Capitalized Phrase>", "<Capitalized Phrase> is hiring", and
// "about <phrase>:". Falls back to DefaultCompany.
func ExtractCompany(text string) string {
	if company, ok := firstMatch(text, companyMatchers, acceptCompany); ok {
		return company
	}
	return DefaultCompany
}
