package parsing

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// maxContextLen bounds ParsedSkill.Context
const maxContextLen = 200

var (
	requiredIndicator  = regexp.MustCompile(`(?i)\b(?:required|requires?|must[- ]have|must|essential|mandatory|critical|needs?|needed|expect(?:ed)?|should have)\b`)
	preferredIndicator = regexp.MustCompile(`(?i)\b(?:preferred|nice[- ]to[- ]have|bonus|a plus|plus|ideally|desired|desirable|advantageous)\b`)

	yearsPattern         = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:(?:-|–|to)\s*\d{1,2}\s*\+?\s*)?(?:years?|yrs?)\b`)
	alternativeSeparator = regexp.MustCompile(`(?i)\s+or\s+|\s*/\s*`)
)

// termPatterns caches compiled boundary patterns keyed by term
var termPatterns sync.Map

// termPattern matches term case-insensitively when it is not embedded in a longer word.
// Boundaries are explicit character classes because \b does not work next to +, # or '.'.
// A preceding '.' is not a boundary, so "js" is not found inside "Node.js".
func termPattern(term string) *regexp.Regexp {
	if re, ok := termPatterns.Load(term); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_.])(` + regexp.QuoteMeta(term) + `)(?:[^\p{L}\p{N}_]|$)`)
	actual, _ := termPatterns.LoadOrStore(term, re)
	return actual.(*regexp.Regexp)
}

// findMentions returns the byte offsets of every mention of any term, in text order
func findMentions(text string, terms []string) []int {
	var mentions []int
	for _, term := range terms {
		if term == "" {
			continue
		}
		for _, loc := range termPattern(term).FindAllStringSubmatchIndex(text, -1) {
			mentions = append(mentions, loc[2])
		}
	}
	slices.Sort(mentions)
	return slices.Compact(mentions)
}

// FindSkillInText reports whether any of terms occurs in text with word boundaries,
// returning the offset of the earliest mention.
func FindSkillInText(text string, terms []string) (int, bool) {
	mentions := findMentions(text, terms)
	if len(mentions) == 0 {
		return -1, false
	}
	return mentions[0], true
}

// IsSkillRequired reports whether a skill is required: it appears inside the
// requirements section, or a required indicator shares a sentence fragment with
// one of its mentions.
func IsSkillRequired(text, requirementsSection string, terms []string, mentions []int) bool {
	if requirementsSection != "" {
		if _, ok := FindSkillInText(requirementsSection, terms); ok {
			return true
		}
	}
	for _, idx := range mentions {
		if requiredIndicator.MatchString(sentenceAt(text, idx)) {
			return true
		}
	}
	return false
}

// ExtractSkills scans every taxonomy skill in category order and splits the ones
// found into required and preferred lists. A skill is reported at most once, under
// the first category that lists it.
func ExtractSkills(text string, tax *taxonomy.Taxonomy) ([]types.ParsedSkill, []types.ParsedSkill) {
	required := make([]types.ParsedSkill, 0)
	preferred := make([]types.ParsedSkill, 0)
	if strings.TrimSpace(text) == "" || tax == nil {
		return required, preferred
	}

	requirements := SplitIntoSections(text)[SectionRequirements]
	seen := make(map[string]bool)

	for _, category := range tax.Categories() {
		for _, skill := range category.Skills {
			if seen[skill] {
				continue
			}
			terms := tax.Terms(skill)
			mentions := findMentions(text, terms)
			if len(mentions) == 0 {
				continue
			}
			seen[skill] = true

			parsed := types.ParsedSkill{
				Name:          skill,
				Category:      category.Kind,
				IsRequired:    IsSkillRequired(text, requirements, terms, mentions),
				YearsRequired: yearsForSkill(text, mentions),
				Context:       truncateRunes(sentenceAt(text, mentions[0]), maxContextLen),
				Alternatives:  skillAlternatives(text, mentions, skill, tax),
			}
			if parsed.IsRequired {
				required = append(required, parsed)
			} else {
				preferred = append(preferred, parsed)
			}
		}
	}

	return required, preferred
}

// yearsForSkill finds an "N years" phrase in the same sentence as a mention,
// preferring the one closest to the mention.
func yearsForSkill(text string, mentions []int) *int {
	for _, idx := range mentions {
		start, end := sentenceBounds(text, idx)
		sentence := text[start:end]
		best, bestDist := -1, len(sentence)+1
		for _, loc := range yearsPattern.FindAllStringSubmatchIndex(sentence, -1) {
			years, err := strconv.Atoi(sentence[loc[2]:loc[3]])
			if err != nil || years <= 0 || years > 50 {
				continue
			}
			dist := abs(loc[0] + start - idx)
			if dist < bestDist {
				best, bestDist = years, dist
			}
		}
		if best > 0 {
			return &best
		}
	}
	return nil
}

// skillAlternatives returns other known skills joined to a mention by "or" or "/"
func skillAlternatives(text string, mentions []int, skill string, tax *taxonomy.Taxonomy) []string {
	var alternatives []string
	seen := map[string]bool{skill: true}
	add := func(alt string) {
		if !seen[alt] {
			seen[alt] = true
			alternatives = append(alternatives, alt)
		}
	}

	checked := make(map[string]bool)
	for _, idx := range mentions {
		sentence := sentenceAt(text, idx)
		if checked[sentence] {
			continue
		}
		checked[sentence] = true

		for _, loc := range alternativeSeparator.FindAllStringIndex(sentence, -1) {
			left := tailPhrases(sentence[:loc[0]], 3)
			right := headPhrases(sentence[loc[1]:], 3)
			if namesSkill(left, skill, tax) {
				if alt, ok := otherKnownSkill(right, skill, tax); ok {
					add(alt)
				}
			}
			if namesSkill(right, skill, tax) {
				if alt, ok := otherKnownSkill(left, skill, tax); ok {
					add(alt)
				}
			}
		}
	}
	return alternatives
}

// tailPhrases returns the last 1..n words of s as candidate phrases, shortest first
func tailPhrases(s string, n int) []string {
	words := phraseWords(s)
	phrases := make([]string, 0, n)
	for k := 1; k <= n && k <= len(words); k++ {
		phrases = append(phrases, strings.Join(words[len(words)-k:], " "))
	}
	return phrases
}

// headPhrases returns the first 1..n words of s as candidate phrases, shortest first
func headPhrases(s string, n int) []string {
	words := phraseWords(s)
	phrases := make([]string, 0, n)
	for k := 1; k <= n && k <= len(words); k++ {
		phrases = append(phrases, strings.Join(words[:k], " "))
	}
	return phrases
}

func phraseWords(s string) []string {
	fields := strings.Fields(s)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimRight(strings.Trim(f, `,;:()[]"'!?`), ".")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func namesSkill(phrases []string, skill string, tax *taxonomy.Taxonomy) bool {
	for _, p := range phrases {
		if tax.Known(p) && tax.Canonicalize(p) == skill {
			return true
		}
	}
	return false
}

func otherKnownSkill(phrases []string, skill string, tax *taxonomy.Taxonomy) (string, bool) {
	for _, p := range phrases {
		if !tax.Known(p) {
			continue
		}
		if canonical := tax.Canonicalize(p); canonical != skill {
			return canonical, true
		}
	}
	return "", false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
