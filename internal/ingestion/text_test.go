package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3\n• Item 4"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
	assert.Contains(t, result, "• Item 4")
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses inner spaces", "Line    with  \t  multiple    spaces", "Line with multiple spaces"},
		{"shrinks blank runs", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"line endings", "Line 1\r\nLine 2\rLine 3\nLine 4", "Line 1\nLine 2\nLine 3\nLine 4"},
		{"whitespace-only lines are blank", "a\n   \n\t\nb", "a\n\nb"},
		{"non-breaking space", "Go\u00a0\u00a0developer", "Go developer"},
		{"nested bullet keeps indent", "- Go\n    - generics   and  iterators", "- Go\n    - generics and iterators"},
		{"heading moves to margin", "Intro\n   ##   Benefits", "Intro\n## Benefits"},
		{"empty", "", ""},
		{"only whitespace", "   \n  \n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanText(got), "cleaning is idempotent")
		})
	}
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	result := CleanText("Test with émojis 🚀 and spéciàl chàracters")

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_ComplexFormatting(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "complex_formatting.txt"))
	require.NoError(t, err)

	result := CleanText(string(content))

	assert.Contains(t, result, "# Senior Software Engineer")
	assert.Contains(t, result, "## Responsibilities")
	assert.Contains(t, result, "  - Go experience")
	assert.Contains(t, result, "* Go (5+ years)")
	assert.Contains(t, result, "Acme Corp is hiring.")
	assert.NotContains(t, result, "\n\n\n")
}

func TestIngestFromFile_Success(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("# Job Title\n\nDescription here"), 0644))

	cleanedText, metadata, err := IngestFromFile(context.Background(), testFile)
	require.NoError(t, err)

	assert.Contains(t, cleanedText, "Job Title")
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
	assert.Equal(t, SourceFile, metadata.Source)
	assert.Equal(t, MIMEPlain, metadata.ContentType)
	assert.Equal(t, "test.txt", metadata.Name)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	cleanedText, metadata, err := IngestFromFile(context.Background(), "/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Empty(t, cleanedText)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIngestFromFile_UnsupportedFormat(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "posting.xlsx")
	require.NoError(t, os.WriteFile(testFile, []byte("binary"), 0644))

	_, _, err := IngestFromFile(context.Background(), testFile)
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".xlsx", unsupported.Format)
}

func TestIngestFromFile_HashFollowsContent(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	_, m1, err := IngestFromFile(context.Background(), write("a.txt", "Content 1"))
	require.NoError(t, err)
	_, m2, err := IngestFromFile(context.Background(), write("b.txt", "Content 2"))
	require.NoError(t, err)
	_, m3, err := IngestFromFile(context.Background(), write("c.txt", "Content   1\n\n"))
	require.NoError(t, err)

	assert.NotEqual(t, m1.Hash, m2.Hash)
	assert.Equal(t, m1.Hash, m3.Hash, "hash is over the cleaned text")
}

func TestWriteArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	metadata := NewMetadata("cleaned", "")

	require.NoError(t, WriteArtifacts(outDir, "cleaned", metadata))

	text, err := os.ReadFile(filepath.Join(outDir, CleanedTextFile))
	require.NoError(t, err)
	assert.Equal(t, "cleaned", string(text))

	meta, err := os.ReadFile(filepath.Join(outDir, MetadataFile))
	require.NoError(t, err)
	assert.Contains(t, string(meta), metadata.Hash)
}

func TestWriteArtifacts_DirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := WriteArtifacts(filepath.Join(blocker, "out"), "x", NewMetadata("x", ""))
	assert.ErrorContains(t, err, "failed to create output directory")
}
