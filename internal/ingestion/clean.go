package ingestion

import (
	"regexp"
	"strings"
)

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")
	spaceRun    = regexp.MustCompile(`[ \t\f\v]+`)
)

// CleanText normalizes line endings and spacing. Leading indentation is kept so
// nested bullets keep their depth, headings are pulled to the margin, and runs
// of blank lines shrink to one.
func CleanText(content string) string {
	lines := strings.Split(lineEndings.Replace(content), "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		line = normalizeLine(line)
		if line == "" && prevBlank {
			continue
		}
		prevBlank = line == ""
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func normalizeLine(line string) string {
	body := strings.TrimLeft(line, " \t")
	indent := len(line) - len(body)
	body = spaceRun.ReplaceAllString(strings.TrimRight(body, " \t"), " ")
	if body == "" || strings.HasPrefix(body, "#") {
		return body
	}
	return strings.Repeat(" ", indent) + body
}
