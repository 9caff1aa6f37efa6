// Package skills builds weighted skill targets from extracted job data.
package skills

import (
	"sort"
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
	"github.com/jonathan/job-match-analyzer/internal/types"
)

const (
	// Weight constants for skill sources (requirement level)
	weightRequired  = 1.0
	weightPreferred = 0.5

	// Source constants
	SourceRequired  = "required"
	SourcePreferred = "preferred"

	// defaultCategoryWeight applies to skills the taxonomy does not categorize
	defaultCategoryWeight = 1.0
)

// BuildSkillTargets builds a weighted list of target skills from extracted job data.
// A skill's weight is its requirement weight (required 1.0, preferred 0.5) scaled by
// its taxonomy category weight. Duplicates keep the maximum weight and the list is
// sorted by weight, descending, with ties in posting order. tax may be nil.
func BuildSkillTargets(data types.ExtractedJobData, tax *taxonomy.Taxonomy) types.SkillTargets {
	b := &targetBuilder{index: make(map[string]int), tax: tax}

	for _, s := range data.RequiredSkills {
		b.add(s, weightRequired, SourceRequired)
	}
	for _, s := range data.PreferredSkills {
		b.add(s, weightPreferred, SourcePreferred)
	}

	sort.SliceStable(b.skills, func(i, j int) bool {
		return b.skills[i].Weight > b.skills[j].Weight
	})

	return types.SkillTargets{Skills: b.skills}
}

// targetBuilder accumulates deduplicated skills in first-seen order
type targetBuilder struct {
	skills []types.Skill
	index  map[string]int
	tax    *taxonomy.Taxonomy
}

// add inserts a skill or updates it if it exists, taking the maximum weight when
// duplicates are found.
func (b *targetBuilder) add(s types.ParsedSkill, weight float64, source string) {
	name := strings.ToLower(strings.TrimSpace(s.Name))
	if name == "" {
		return
	}
	weight *= b.categoryWeight(name)

	if i, exists := b.index[name]; exists {
		existing := &b.skills[i]
		if weight > existing.Weight {
			existing.Weight = weight
			existing.Source = source
		}
		// If weights are equal, prioritize source by: required > preferred
		if weight == existing.Weight && getSourcePriority(source) > getSourcePriority(existing.Source) {
			existing.Source = source
		}
		return
	}

	b.index[name] = len(b.skills)
	b.skills = append(b.skills, types.Skill{
		Name:     name,
		Category: s.Category,
		Weight:   weight,
		Source:   source,
	})
}

func (b *targetBuilder) categoryWeight(name string) float64 {
	if b.tax == nil {
		return defaultCategoryWeight
	}
	if c, ok := b.tax.CategoryOf(name); ok && c.Weight > 0 {
		return c.Weight
	}
	return defaultCategoryWeight
}

// getSourcePriority returns a numeric priority for source types.
// Higher numbers indicate higher priority.
func getSourcePriority(source string) int {
	switch source {
	case SourceRequired:
		return 2
	case SourcePreferred:
		return 1
	default:
		return 0
	}
}

// TopGaps orders gaps by the weight of the matching target and returns at most n.
// Gaps without a target keep their relative order after the weighted ones.
func TopGaps(gaps []types.SkillGap, targets types.SkillTargets, n int) []types.SkillGap {
	weights := make(map[string]float64, len(targets.Skills))
	for _, s := range targets.Skills {
		weights[s.Name] = s.Weight
	}

	ordered := append([]types.SkillGap(nil), gaps...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return weights[strings.ToLower(ordered[i].Skill)] > weights[strings.ToLower(ordered[j].Skill)]
	})

	if n >= 0 && len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}
