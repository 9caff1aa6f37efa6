// Package observability provides structured logging setup, Prometheus metrics and
// formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-match-analyzer/internal/ranking"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to limit items with a "... and N more" tail
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintExtractedData outputs a human-readable summary of the structured posting.
func (p *Printer) PrintExtractedData(data *types.ExtractedJobData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", data.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", data.Title))
	location := data.Location
	if data.IsRemote {
		location += " (remote)"
	}
	sb.WriteString(fmt.Sprintf("Location: %s\n", location))
	if data.Industry != nil {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", *data.Industry))
	}
	if data.Salary != nil {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", data.Salary.Raw))
	}
	sb.WriteString("\n")

	required := make([]string, 0, len(data.RequiredSkills))
	for _, s := range data.RequiredSkills {
		entry := s.Name
		if s.YearsRequired != nil {
			entry += fmt.Sprintf(" (%d+ yrs)", *s.YearsRequired)
		}
		required = append(required, entry)
	}
	writeList(&sb, "Required Skills", required, maxItemsToShow)

	preferred := make([]string, 0, len(data.PreferredSkills))
	for _, s := range data.PreferredSkills {
		preferred = append(preferred, s.Name)
	}
	writeList(&sb, "Preferred Skills", preferred, 3)

	quals := make([]string, 0, len(data.Qualifications))
	for _, q := range data.Qualifications {
		quals = append(quals, fmt.Sprintf("[%s] %s", q.Type, q.Requirement))
	}
	writeList(&sb, "Qualifications", quals, 3)

	p.printBox("EXTRACTED JOB DATA", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintMatch outputs the score, skill matches and gaps of an analysis.
func (p *Printer) PrintMatch(result *types.JobAnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %d/100 (%s confidence)\n", result.MatchScore, result.ConfidenceLevel))
	sb.WriteString(fmt.Sprintf("Seniority:   %s · %s · %s\n", result.SeniorityLevel, result.WorkMode, result.JobType))
	sb.WriteString(fmt.Sprintf("Progression: %s · industry fit %s\n\n", result.CareerProgression, result.IndustryFit))

	matched := make([]string, 0, len(result.MatchingSkills))
	for _, m := range result.MatchingSkills {
		entry := m.Skill
		if m.UserSkill != m.Skill {
			entry += fmt.Sprintf(" ← %s", m.UserSkill)
		}
		matched = append(matched, "✓ "+entry)
	}
	writeList(&sb, "Matching Skills", matched, maxItemsToShow)

	missing := make([]string, 0, len(result.MissingSkills))
	for _, g := range result.MissingSkills {
		missing = append(missing, fmt.Sprintf("✗ %s (%s)", g.Skill, g.Priority))
	}
	writeList(&sb, "Missing Skills", missing, maxItemsToShow)

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintRecommendation outputs the recommended action with its timeline and steps.
func (p *Printer) PrintRecommendation(rec *types.ApplicationRecommendation) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Action:   %s\n", rec.Action))
	sb.WriteString(fmt.Sprintf("Timeline: %s\n\n", rec.Timeline))
	writeList(&sb, "Reasoning", rec.Reasoning, 3)
	writeList(&sb, "Preparation", rec.PreparationSteps, maxItemsToShow)

	p.printBox("RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintRiskFactors outputs any risk factors found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRiskFactors(risks []string) {
	if len(risks) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO RISK FACTORS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d risk factors:\n\n", len(risks)))
	for i, r := range risks {
		sb.WriteString(fmt.Sprintf("⚠ %s", r))
		if i < len(risks)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RISK FACTORS", sb.String())
}

// PrintAnalysis prints every section of an analysis in reading order
func (p *Printer) PrintAnalysis(result *types.JobAnalysisResult) {
	if result == nil {
		return
	}
	p.PrintExtractedData(&result.ExtractedData)
	p.PrintMatch(result)
	p.PrintRecommendation(&result.ApplicationRecommendation)
	p.PrintRiskFactors(result.RiskFactors)
}

// PrintRanking outputs postings ranked for one candidate
func (p *Printer) PrintRanking(ranked []ranking.RankedPosting) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Postings ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i, r := range ranked[:count] {
		sb.WriteString(fmt.Sprintf("#%d  %s at %s\n", i+1, r.Title, r.Company))
		sb.WriteString(fmt.Sprintf("    Score: %d (%s)\n", r.Score, r.Action))
		if r.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", truncate(r.Notes, 48)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more postings", len(ranked)-maxItemsToShow))
	}

	p.printBox("RANKED POSTINGS", strings.TrimSuffix(sb.String(), "\n"))
}
