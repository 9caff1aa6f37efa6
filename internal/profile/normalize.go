package profile

import (
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/parsing"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

// NormalizedProfile is the canonical view of a user profile used for scoring.
// Skills keeps the lowercased names the user wrote and is what skill matching
// compares against; CanonicalSkills maps them through the taxonomy for lookups
// against extracted skill names.
type NormalizedProfile struct {
	Skills          []string       `json:"skills"`
	CanonicalSkills []string       `json:"canonicalSkills,omitempty"`
	SkillYears      map[string]int `json:"skillYears,omitempty"`
	YearsExperience float64        `json:"yearsExperience"`
	Titles          []string       `json:"titles"`
	Industries      []string       `json:"industries"`
	Degrees         []string       `json:"degrees"`
	Summary         string         `json:"summary,omitempty"`
}

// HighestDegree returns the highest degree level held, or parsing.DegreeNone
func (p NormalizedProfile) HighestDegree() string {
	best := parsing.DegreeNone
	for _, d := range p.Degrees {
		if DegreeRank(d) > DegreeRank(best) {
			best = d
		}
	}
	return best
}

// HasIndustry reports whether any work-history industry matches name, case-insensitively
func (p NormalizedProfile) HasIndustry(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, ind := range p.Industries {
		if ind == name {
			return true
		}
	}
	return false
}

// skillName extracts the raw name for each entry variant; unknown shapes yield ""
func skillName(entry types.SkillEntry) string {
	switch entry.Kind {
	case types.SkillKindPlain, types.SkillKindNamed, types.SkillKindLabeled:
		return entry.Value
	default:
		return ""
	}
}

// NormalizeUserSkills lowercases and trims every entry, dropping empty names and
// unrecognized shapes. Order is preserved and duplicates are removed.
func NormalizeUserSkills(entries []types.SkillEntry) []string {
	skills := make([]string, 0, len(entries))
	seen := make(map[string]struct{})

	for _, entry := range entries {
		name := strings.ToLower(strings.TrimSpace(skillName(entry)))
		if name == "" {
			continue
		}
		if _, exists := seen[name]; !exists {
			skills = append(skills, name)
			seen[name] = struct{}{}
		}
	}

	return skills
}

// Normalize converts a loosely shaped profile into a NormalizedProfile. When tax is
// non-nil, CanonicalSkills holds the taxonomy names for the user's skills (so
// "Node.js" becomes "nodejs"); Skills is never rewritten. Normalize never fails;
// missing fields become zero values.
func Normalize(p types.UserProfile, tax *taxonomy.Taxonomy) NormalizedProfile {
	skills := NormalizeUserSkills(p.Skills)
	normalized := NormalizedProfile{
		Skills:          skills,
		CanonicalSkills: canonicalSkills(skills, tax),
		SkillYears:      skillYears(p.Skills),
		Titles:          make([]string, 0, len(p.WorkExperience)),
		Industries:      make([]string, 0, len(p.WorkExperience)),
		Degrees:         make([]string, 0, len(p.Education)),
		Summary:         strings.TrimSpace(p.Summary),
	}

	normalized.YearsExperience = p.YearsExperience
	if normalized.YearsExperience <= 0 {
		normalized.YearsExperience = 0
		for _, w := range p.WorkExperience {
			if w.Years > 0 {
				normalized.YearsExperience += w.Years
			}
		}
	}

	titles := make(map[string]struct{})
	industries := make(map[string]struct{})
	for _, w := range p.WorkExperience {
		if title := strings.TrimSpace(w.Title); title != "" {
			if _, ok := titles[strings.ToLower(title)]; !ok {
				titles[strings.ToLower(title)] = struct{}{}
				normalized.Titles = append(normalized.Titles, title)
			}
		}
		if industry := strings.ToLower(strings.TrimSpace(w.Industry)); industry != "" {
			if _, ok := industries[industry]; !ok {
				industries[industry] = struct{}{}
				normalized.Industries = append(normalized.Industries, industry)
			}
		}
	}

	for _, e := range p.Education {
		if level := parsing.DegreeLevel(e.Degree); level != parsing.DegreeNone {
			normalized.Degrees = append(normalized.Degrees, level)
		}
	}

	return normalized
}

func canonicalSkills(skills []string, tax *taxonomy.Taxonomy) []string {
	if tax == nil {
		return append([]string(nil), skills...)
	}
	canonical := make([]string, 0, len(skills))
	seen := make(map[string]struct{})
	for _, s := range skills {
		c := tax.Canonicalize(s)
		if _, exists := seen[c]; !exists {
			canonical = append(canonical, c)
			seen[c] = struct{}{}
		}
	}
	return canonical
}

// skillYears is keyed by the same lowercased names as NormalizedProfile.Skills
func skillYears(entries []types.SkillEntry) map[string]int {
	years := make(map[string]int)
	for _, entry := range entries {
		if entry.Years == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(skillName(entry)))
		if name == "" {
			continue
		}
		if *entry.Years > years[name] {
			years[name] = *entry.Years
		}
	}
	return years
}

// DegreeRank orders degree levels; unknown levels rank 0
func DegreeRank(level string) int {
	return degreeRank[level]
}

var degreeRank = map[string]int{
	parsing.DegreeHighSchool: 1,
	parsing.DegreeAssociate:  2,
	parsing.DegreeBachelor:   3,
	parsing.DegreeMaster:     4,
	parsing.DegreePhD:        5,
}
