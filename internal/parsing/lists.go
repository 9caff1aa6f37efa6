package parsing

import (
	"strings"
)

const (
	maxResponsibilities    = 10
	minResponsibilityLen   = 10
	maxResponsibilityLen   = 200
	shortBenefitAliasRunes = 4
)

// benefit is a canonical benefit name with the phrasings that indicate it
type benefit struct {
	name    string
	aliases []string
}

var benefitVocabulary = []benefit{
	{"Health insurance", []string{"health insurance", "medical insurance", "medical coverage", "health coverage", "healthcare benefits", "health benefits"}},
	{"Dental insurance", []string{"dental"}},
	{"Vision insurance", []string{"vision insurance", "vision coverage", "vision plan"}},
	{"Life insurance", []string{"life insurance"}},
	{"401(k)", []string{"401(k)", "401k", "retirement plan", "pension"}},
	{"Paid time off", []string{"paid time off", "pto", "vacation", "paid holidays", "unlimited time off"}},
	{"Flexible schedule", []string{"flexible hours", "flexible schedule", "flexible working", "flextime"}},
	{"Remote work", []string{"remote work", "work from home", "remote-friendly", "home office stipend"}},
	{"Equity", []string{"equity", "stock options", "rsu", "rsus", "espp"}},
	{"Performance bonus", []string{"performance bonus", "annual bonus", "signing bonus", "sign-on bonus"}},
	{"Parental leave", []string{"parental leave", "maternity leave", "paternity leave", "family leave"}},
	{"Professional development", []string{"professional development", "learning budget", "training budget", "conference budget", "career development", "learning stipend"}},
	{"Tuition reimbursement", []string{"tuition reimbursement", "tuition assistance", "education assistance"}},
	{"Wellness program", []string{"wellness", "gym membership", "fitness stipend", "mental health"}},
	{"Commuter benefits", []string{"commuter benefits", "transit benefits", "commuter stipend"}},
	{"Free meals", []string{"free lunch", "catered meals", "free meals", "catered lunch"}},
	{"Employee discounts", []string{"employee discount"}},
}

// ExtractBenefits returns the canonical benefits mentioned in the text, deduplicated and
// in vocabulary order. Aliases match by case-insensitive containment; aliases of four
// characters or fewer must stand as whole words.
func ExtractBenefits(text string) []string {
	benefits := make([]string, 0)
	lower := strings.ToLower(text)
	seen := make(map[string]bool)

	for _, b := range benefitVocabulary {
		if seen[b.name] {
			continue
		}
		for _, alias := range b.aliases {
			if benefitMentioned(text, lower, alias) {
				seen[b.name] = true
				benefits = append(benefits, b.name)
				break
			}
		}
	}
	return benefits
}

func benefitMentioned(text, lower, alias string) bool {
	if runeLen(alias) <= shortBenefitAliasRunes {
		return termPattern(alias).MatchString(text)
	}
	return strings.Contains(lower, alias)
}

// ExtractResponsibilities returns up to ten responsibility lines. Lines come from the
// responsibilities section when present, otherwise from bullet lines anywhere in the
// text. List markers are stripped and lines outside [10,200) characters are dropped.
func ExtractResponsibilities(text string) []string {
	responsibilities := make([]string, 0, maxResponsibilities)

	var candidates []string
	if block := SplitIntoSections(text)[SectionResponsibilities]; block != "" {
		candidates = nonEmptyLines(block)
	} else {
		for _, line := range nonEmptyLines(text) {
			if isBulletLine(line) {
				candidates = append(candidates, line)
			}
		}
	}

	for _, line := range candidates {
		item := collapseWhitespace(stripBullet(line))
		n := runeLen(item)
		if n < minResponsibilityLen || n >= maxResponsibilityLen {
			continue
		}
		responsibilities = append(responsibilities, item)
		if len(responsibilities) == maxResponsibilities {
			break
		}
	}
	return responsibilities
}
