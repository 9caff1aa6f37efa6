package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	bulletMarker  = regexp.MustCompile(`^\s*(?:[-*•·▪●◦‣]|\d{1,2}[.)])\s+`)
)

// matcher extracts a candidate value from text, reporting whether it found one
type matcher func(text string) (string, bool)

// firstMatch runs matchers in order and returns the first candidate accepted by accept
func firstMatch(text string, matchers []matcher, accept func(string) bool) (string, bool) {
	for _, m := range matchers {
		if candidate, ok := m(text); ok && accept(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// regexMatcher returns a matcher yielding the first capture group of re, trimmed
func regexMatcher(re *regexp.Regexp) matcher {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return "", false
		}
		return cleanCandidate(m[1]), true
	}
}

// cleanCandidate trims whitespace, markdown emphasis and trailing punctuation
func cleanCandidate(s string) string {
	s = collapseWhitespace(s)
	s = strings.Trim(s, "*_#`\"' ")
	s = strings.TrimRight(s, ".,;:!-–— ")
	return strings.TrimSpace(s)
}

// collapseWhitespace replaces runs of whitespace with a single space
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// truncateRunes cuts s to at most n runes
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// runeLen returns the number of runes in s
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// stripBullet removes a leading list marker
func stripBullet(line string) string {
	return strings.TrimSpace(bulletMarker.ReplaceAllString(line, ""))
}

// isBulletLine reports whether the line starts with a list marker
func isBulletLine(line string) bool {
	return bulletMarker.MatchString(line)
}

// isSentenceBoundary reports whether text[i] ends a sentence fragment.
// Periods only count when followed by whitespace so that names like Node.js stay intact.
func isSentenceBoundary(text string, i int) bool {
	switch text[i] {
	case '\n', ';':
		return true
	case '.', '!', '?':
		if i+1 == len(text) {
			return true
		}
		switch text[i+1] {
		case ' ', '\t', '\n', '\r':
			return true
		}
	}
	return false
}

// sentenceBounds returns the byte range of the sentence fragment containing idx
func sentenceBounds(text string, idx int) (int, int) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(text) {
		idx = len(text)
	}
	start := idx
	for start > 0 && !isSentenceBoundary(text, start-1) {
		start--
	}
	end := idx
	for end < len(text) && !isSentenceBoundary(text, end) {
		end++
	}
	return start, end
}

// sentenceAt returns the trimmed sentence fragment containing idx
func sentenceAt(text string, idx int) string {
	start, end := sentenceBounds(text, idx)
	return collapseWhitespace(stripBullet(text[start:end]))
}

// nonEmptyLines splits text into trimmed, non-empty lines
func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
