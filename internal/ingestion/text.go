// Package ingestion turns job posting sources (files, URLs, uploaded documents)
// into cleaned text plus provenance metadata.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Names of the files WriteArtifacts produces
const (
	CleanedTextFile = "job_posting.cleaned.txt"
	MetadataFile    = "job_posting.meta.json"
)

// IngestFromFile reads a posting document (text, markdown, HTML, PDF or DOCX),
// extracts and cleans its text, and returns it with metadata.
func IngestFromFile(_ context.Context, path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", nil, fmt.Errorf("file not found: %w", err)
	case err != nil:
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, meta, err := IngestDocument(data, filepath.Base(path), "")
	if err != nil {
		return "", nil, err
	}
	meta.Source = SourceFile
	return text, meta, nil
}

// IngestDocument extracts and cleans the text of an in-memory document. The format
// comes from contentType, or from the extension of name when contentType is empty.
func IngestDocument(data []byte, name, contentType string) (string, *Metadata, error) {
	format := DetectFormat(name, contentType)
	raw, err := ExtractDocumentText(data, format)
	if err != nil {
		return "", nil, err
	}

	text := CleanText(raw)
	meta := NewMetadata(text, "")
	meta.Source = SourceUpload
	meta.ContentType = format
	meta.Name = name
	return text, meta, nil
}

// WriteArtifacts saves the cleaned text and its metadata under dir, creating
// the directory if needed.
func WriteArtifacts(dir, text string, meta *Metadata) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	metaJSON, err := meta.ToJSON()
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{CleanedTextFile, []byte(text)},
		{MetadataFile, metaJSON},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}
	return nil
}
