package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Sources recorded in Metadata.Source
const (
	SourceFile   = "file"
	SourceURL    = "url"
	SourceUpload = "upload"
	SourceInline = "inline"
	SourceObject = "object_storage"
)

// Metadata contains provenance information about an ingested job posting
type Metadata struct {
	Source      string `json:"source,omitempty"`
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Timestamp   string `json:"timestamp"`          // RFC3339 format
	Hash        string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform    string `json:"platform,omitempty"` // Detected job board platform
	Rendered    bool   `json:"rendered,omitempty"` // Fetched through a headless browser
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      Hash(content),
	}
}

// Hash computes the SHA256 hash of content as a hex string
func Hash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
