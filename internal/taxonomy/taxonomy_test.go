package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/job-match-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedTaxonomy(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)

	categories := tax.Categories()
	require.NotEmpty(t, categories)
	assert.Equal(t, "programming", categories[0].Name)
	assert.Greater(t, tax.SkillCount(), 100)

	for _, c := range categories {
		assert.Greater(t, c.Weight, 0.0, "category %s", c.Name)
		assert.NotEmpty(t, c.Skills, "category %s", c.Name)
	}
}

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestCanonicalize(t *testing.T) {
	tax := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"Node.js", "nodejs"},
		{"node", "nodejs"},
		{"  ReactJS ", "react"},
		{"K8s", "kubernetes"},
		{"postgres", "postgresql"},
		{"Python", "python"},
		{"Underwater Basket Weaving", "underwater basket weaving"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.Canonicalize(tt.input))
		})
	}
}

func TestTerms_CanonicalFirst(t *testing.T) {
	terms := Default().Terms("nodejs")
	require.NotEmpty(t, terms)
	assert.Equal(t, "nodejs", terms[0])
	assert.Contains(t, terms, "node.js")
	assert.Contains(t, terms, "node")
}

func TestCategoryOf(t *testing.T) {
	tax := Default()

	c, ok := tax.CategoryOf("React")
	require.True(t, ok)
	assert.Equal(t, "frameworks", c.Name)
	assert.Equal(t, types.CategoryTechnical, c.Kind)

	c, ok = tax.CategoryOf("communication skills")
	require.True(t, ok)
	assert.Equal(t, types.CategorySoft, c.Kind)

	_, ok = tax.CategoryOf("not a skill")
	assert.False(t, ok)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	tax := Default()
	categories := tax.Categories()
	categories[0].Skills[0] = "mutated"

	assert.NotEqual(t, "mutated", tax.Categories()[0].Skills[0])
}

func TestParse_FirstCategoryWins(t *testing.T) {
	doc := `
categories:
  - name: first
    kind: technical
    weight: 1
    skills: [sql]
  - name: second
    kind: domain
    weight: 0.5
    skills: [sql, excel]
`
	tax, err := Parse([]byte(doc))
	require.NoError(t, err)

	c, ok := tax.CategoryOf("sql")
	require.True(t, ok)
	assert.Equal(t, "first", c.Name)
	assert.Equal(t, 2, tax.SkillCount())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no categories", doc: `version: 1`},
		{name: "empty name", doc: "categories:\n  - kind: soft\n    weight: 1\n    skills: [a]"},
		{name: "zero weight", doc: "categories:\n  - name: a\n    kind: soft\n    weight: 0\n    skills: [a]"},
		{name: "bad kind", doc: "categories:\n  - name: a\n    kind: vibes\n    weight: 1\n    skills: [a]"},
		{name: "no skills", doc: "categories:\n  - name: a\n    kind: soft\n    weight: 1\n    skills: []"},
		{name: "duplicate category", doc: "categories:\n  - name: a\n    kind: soft\n    weight: 1\n    skills: [x]\n  - name: a\n    kind: soft\n    weight: 1\n    skills: [y]"},
		{name: "synonym of unknown skill", doc: "categories:\n  - name: a\n    kind: soft\n    weight: 1\n    skills: [x]\nsynonyms:\n  y: [z]"},
		{name: "alias collides with skill", doc: "categories:\n  - name: a\n    kind: soft\n    weight: 1\n    skills: [x, y]\nsynonyms:\n  x: [y]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), "expected ValidationError, got %T", err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		tax, err := Load("")
		require.NoError(t, err)
		assert.Same(t, Default(), tax)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tax.yaml")
		doc := "categories:\n  - name: ops\n    kind: domain\n    weight: 1\n    skills: [logistics]\nsynonyms:\n  logistics: [freight]"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		tax, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "logistics", tax.Canonicalize("Freight"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, loadErr.Error(), "failed to read taxonomy file")
	})
}
