package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// Section names produced by SplitIntoSections
const (
	SectionRequirements     = "requirements"
	SectionPreferred        = "preferred"
	SectionResponsibilities = "responsibilities"
	SectionSkills           = "skills"
	SectionBenefits         = "benefits"
)

// sectionHeader pairs a section name with the header pattern that opens it.
// Order matters: "preferred qualifications" must be tried before "qualifications".
type sectionHeader struct {
	name    string
	pattern *regexp.Regexp
}

func headerPattern(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + labels + `)\s*(?::\s*(.*))?$`)
}

var sectionHeaders = []sectionHeader{
	{SectionPreferred, headerPattern(`preferred qualifications|preferred skills|preferred experience|preferred|nice[- ]to[- ]haves?|bonus points|bonus|pluses|it'?s a plus if you have`)},
	{SectionRequirements, headerPattern(`requirements|required qualifications|required skills|minimum qualifications|basic qualifications|qualifications|what you(?:'ll)? need|what we(?:'re)? looking for|who you are|must[- ]haves?`)},
	{SectionResponsibilities, headerPattern(`responsibilities|key responsibilities|what you(?:'ll)? do|what you will do|duties|your role|the role|day[- ]to[- ]day|in this role you will`)},
	{SectionSkills, headerPattern(`skills|technical skills|tech stack|technologies|our stack`)},
	{SectionBenefits, headerPattern(`benefits|perks|perks (?:and|&) benefits|what we offer|compensation (?:and|&) benefits`)},
}

var (
	markdownHeading = regexp.MustCompile(`^#{1,6}\s+`)
	emphasis        = strings.NewReplacer("**", "", "__", "")
)

// headerText strips markdown heading and emphasis markers from a candidate header line
func headerText(line string) string {
	line = strings.TrimSpace(line)
	line = markdownHeading.ReplaceAllString(line, "")
	line = emphasis.Replace(line)
	return strings.TrimSpace(strings.Trim(line, "*_ "))
}

// matchSectionHeader returns the section opened by line and the inline remainder after the label
func matchSectionHeader(line string) (string, string, bool) {
	text := headerText(line)
	for _, h := range sectionHeaders {
		if m := h.pattern.FindStringSubmatch(text); m != nil {
			rest := ""
			if len(m) > 1 {
				rest = strings.TrimSpace(m[1])
			}
			return h.name, rest, true
		}
	}
	return "", "", false
}

// isGenericHeader reports whether line looks like a heading for a section we do not track
func isGenericHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isBulletLine(trimmed) {
		return false
	}
	if markdownHeading.MatchString(trimmed) {
		return true
	}
	text := headerText(trimmed)
	if text == "" || runeLen(text) > 60 || !strings.HasSuffix(text, ":") {
		return false
	}
	first := []rune(text)[0]
	return unicode.IsUpper(first)
}

// SplitIntoSections splits a posting into named blocks keyed by section name.
// A block starts at a header line (the inline text after the label belongs to the block)
// and runs until the next header line or end of text. Text without recognizable
// headers yields an empty map.
func SplitIntoSections(text string) map[string]string {
	sections := make(map[string]string)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	current := ""
	var buf []string
	flush := func() {
		if current == "" {
			return
		}
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if content != "" {
			if existing, ok := sections[current]; ok {
				content = existing + "\n" + content
			}
			sections[current] = content
		}
		buf = nil
	}

	for _, line := range lines {
		if name, rest, ok := matchSectionHeader(line); ok {
			flush()
			current = name
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if isGenericHeader(line) {
			flush()
			current = ""
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}

// withoutSection returns text with the named section's header and body lines removed
func withoutSection(text, name string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))

	current := ""
	for _, line := range lines {
		if section, _, ok := matchSectionHeader(line); ok {
			current = section
		} else if isGenericHeader(line) {
			current = ""
		}
		if current != name {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
