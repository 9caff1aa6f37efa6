package parsing

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTitle is returned when no title candidate passes the length check
const DefaultTitle = "Software Engineer"

const (
	minTitleLen = 5
	maxTitleLen = 100
)

var (
	titleLabel  = regexp.MustCompile(`(?im)^\s*(?:#+\s*)?(?:\*\*)?(?:job\s+title|position(?:\s+title)?|role(?:\s+title)?|title)\s*:\s*(?:\*\*)?\s*([^\n]+?)\s*$`)
	titleHiring = regexp.MustCompile(`(?i)\b(?:hiring|seeking|looking\s+for)\s+(?:an?\s+|our\s+next\s+|a\s+talented\s+)?([^\n]+?)\s+(?:at|with|for|in|to)\b`)
	titleWeAre  = regexp.MustCompile(`(?i)\bwe(?:'re|’re|\s+are)\s+hiring\s+(?:an?\s+)?([^\n.!,]+)`)
	titleDash   = regexp.MustCompile(`\s+[-–—|]\s+|\s*[–—|]\s*`)
)

var titleMatchers = []matcher{
	regexMatcher(titleLabel),
	regexMatcher(titleHiring),
	firstLineTitle,
	regexMatcher(titleWeAre),
}

// firstLineTitle returns the first non-empty line up to a dash separator
func firstLineTitle(text string) (string, bool) {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return "", false
	}
	// a section header is never a title
	if _, _, isHeader := matchSectionHeader(lines[0]); isHeader || strings.HasSuffix(lines[0], ":") {
		return "", false
	}
	line := markdownHeading.ReplaceAllString(lines[0], "")
	if loc := titleDash.FindStringIndex(line); loc != nil {
		line = line[:loc[0]]
	}
	candidate := cleanCandidate(line)
	return candidate, candidate != ""
}

func acceptTitle(candidate string) bool {
	n := runeLen(candidate)
	return n >= minTitleLen && n < maxTitleLen
}

// ExtractTitle returns the job title. Candidates are tried in order: an explicit
// label, a "hiring/seeking/looking for ... at" phrase, the first line up to a dash,
// and a "we're hiring a ..." phrase. The first candidate whose length is in [5,100)
// wins; otherwise DefaultTitle is returned.
func ExtractTitle(text string) string {
	if title, ok := firstMatch(text, titleMatchers, acceptTitle); ok {
		return title
	}
	return DefaultTitle
}

// titleReplacement is one abbreviation expansion applied by NormalizeTitle
type titleReplacement struct {
	pattern *regexp.Regexp
	replace string
}

// Applied in order; later rules see the output of earlier ones.
var titleReplacements = []titleReplacement{
	{regexp.MustCompile(`(?i)\s*\((?:remote|hybrid|on-?site|contract|full[- ]time|part[- ]time)[^)]*\)`), ""},
	{regexp.MustCompile(`(?i)\bsr\b\.?`), "Senior"},
	{regexp.MustCompile(`(?i)\bjr\b\.?`), "Junior"},
	{regexp.MustCompile(`(?i)\bswe\b`), "Software Engineer"},
	{regexp.MustCompile(`(?i)\bsde\b`), "Software Development Engineer"},
	{regexp.MustCompile(`(?i)\bsre\b`), "Site Reliability Engineer"},
	{regexp.MustCompile(`(?i)\bdev\b\.?`), "Developer"},
	{regexp.MustCompile(`(?i)\beng\b\.?`), "Engineer"},
	{regexp.MustCompile(`(?i)\bmgr\b\.?`), "Manager"},
	{regexp.MustCompile(`(?i)\bvp\b`), "Vice President"},
	{regexp.MustCompile(`(?i)\bassoc\b\.?`), "Associate"},
	{regexp.MustCompile(`(?i)\bmktg\b`), "Marketing"},
	{regexp.MustCompile(`(?i)\bops\b`), "Operations"},
	{regexp.MustCompile(`(?i)\bqa\b`), "QA"},
	{regexp.MustCompile(`(?i)\bui/ux\b`), "UI/UX"},
}

var lowercaseTitleWords = map[string]bool{
	"of": true, "and": true, "the": true, "for": true, "in": true, "to": true, "at": true, "a": true, "an": true, "&": true,
}

// NormalizeTitle expands common abbreviations, collapses whitespace and title-cases
// lowercase words. Words that already carry capitals (iOS, QA) keep their casing.
func NormalizeTitle(title string) string {
	normalized := title
	for _, r := range titleReplacements {
		normalized = r.pattern.ReplaceAllString(normalized, r.replace)
	}
	normalized = collapseWhitespace(normalized)
	if normalized == "" {
		return ""
	}

	caser := cases.Title(language.English)
	words := strings.Split(normalized, " ")
	for i, w := range words {
		if w != strings.ToLower(w) {
			continue
		}
		if i > 0 && lowercaseTitleWords[w] {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
