// Package taxonomy provides the skill taxonomy and synonym table used by the job text extractor.
// The default taxonomy is stored as YAML and embedded at compile time.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Category is one named group of skills
type Category struct {
	Name   string              `yaml:"name" json:"name"`
	Kind   types.SkillCategory `yaml:"kind" json:"kind"`
	Weight float64             `yaml:"weight" json:"weight"`
	Skills []string            `yaml:"skills" json:"skills"`
}

// file is the on-disk layout of a taxonomy document
type file struct {
	Version    int                 `yaml:"version"`
	Categories []Category          `yaml:"categories"`
	Synonyms   map[string][]string `yaml:"synonyms"`
}

// Taxonomy is an immutable, ordered skill taxonomy. It is safe for concurrent use.
type Taxonomy struct {
	categories []Category
	synonyms   map[string][]string // canonical -> aliases
	canonical  map[string]string   // canonical or alias -> canonical
	categoryOf map[string]int      // canonical -> index into categories (first wins)
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the embedded taxonomy. It panics if the embedded file is invalid,
// which can only happen with a broken build.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded taxonomy: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// LoadFile reads a taxonomy from a YAML file on disk
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read taxonomy file", Cause: err}
	}
	t, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid taxonomy", Cause: err}
	}
	return t, nil
}

// Load returns the taxonomy at path, or the embedded default when path is empty
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Parse builds a taxonomy from YAML content
func Parse(data []byte) (*Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy YAML: %w", err)
	}
	return build(f)
}

func build(f file) (*Taxonomy, error) {
	if len(f.Categories) == 0 {
		return nil, &ValidationError{Message: "taxonomy has no categories"}
	}

	t := &Taxonomy{
		categories: make([]Category, 0, len(f.Categories)),
		synonyms:   make(map[string][]string),
		canonical:  make(map[string]string),
		categoryOf: make(map[string]int),
	}

	seenCategories := make(map[string]bool)
	for _, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, &ValidationError{Message: "category name is empty"}
		}
		if seenCategories[name] {
			return nil, &ValidationError{Category: name, Message: "duplicate category"}
		}
		seenCategories[name] = true

		if c.Weight <= 0 {
			return nil, &ValidationError{Category: name, Message: "weight must be positive"}
		}
		switch c.Kind {
		case types.CategoryTechnical, types.CategorySoft, types.CategoryDomain, types.CategoryCertification:
		default:
			return nil, &ValidationError{Category: name, Message: fmt.Sprintf("unknown kind %q", c.Kind)}
		}

		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			s = normalize(s)
			if s == "" {
				continue
			}
			skills = append(skills, s)
			if _, exists := t.categoryOf[s]; !exists {
				t.categoryOf[s] = len(t.categories)
			}
			t.canonical[s] = s
		}
		if len(skills) == 0 {
			return nil, &ValidationError{Category: name, Message: "category has no skills"}
		}

		t.categories = append(t.categories, Category{Name: name, Kind: c.Kind, Weight: c.Weight, Skills: skills})
	}

	for canonical, aliases := range f.Synonyms {
		canonical = normalize(canonical)
		if _, ok := t.categoryOf[canonical]; !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("synonyms declared for unknown skill %q", canonical)}
		}
		cleaned := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			alias = normalize(alias)
			if alias == "" || alias == canonical {
				continue
			}
			if owner, taken := t.canonical[alias]; taken && owner != canonical {
				return nil, &ValidationError{Message: fmt.Sprintf("alias %q maps to both %q and %q", alias, owner, canonical)}
			}
			t.canonical[alias] = canonical
			cleaned = append(cleaned, alias)
		}
		t.synonyms[canonical] = cleaned
	}

	return t, nil
}

// Categories returns the categories in scan order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		c.Skills = append([]string(nil), c.Skills...)
		out[i] = c
	}
	return out
}

// Synonyms returns the aliases of a canonical skill name
func (t *Taxonomy) Synonyms(canonical string) []string {
	return append([]string(nil), t.synonyms[normalize(canonical)]...)
}

// Terms returns the canonical name followed by its aliases, i.e. every string
// that counts as a mention of the skill.
func (t *Taxonomy) Terms(canonical string) []string {
	canonical = normalize(canonical)
	terms := make([]string, 0, 1+len(t.synonyms[canonical]))
	terms = append(terms, canonical)
	return append(terms, t.synonyms[canonical]...)
}

// Canonicalize maps a skill name or alias to its canonical form.
// Unknown names are returned lowercased and trimmed.
func (t *Taxonomy) Canonicalize(name string) string {
	n := normalize(name)
	if canonical, ok := t.canonical[n]; ok {
		return canonical
	}
	return n
}

// CategoryOf returns the first category that lists the skill
func (t *Taxonomy) CategoryOf(skill string) (Category, bool) {
	idx, ok := t.categoryOf[t.Canonicalize(skill)]
	if !ok {
		return Category{}, false
	}
	return t.categories[idx], true
}

// Known reports whether name is a canonical skill or alias
func (t *Taxonomy) Known(name string) bool {
	_, ok := t.canonical[normalize(name)]
	return ok
}

// SkillCount returns the number of distinct canonical skills
func (t *Taxonomy) SkillCount() int {
	return len(t.categoryOf)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
