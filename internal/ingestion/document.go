package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/job-match-analyzer/internal/fetch"
)

// Supported document formats
const (
	MIMEPlain    = "text/plain"
	MIMEMarkdown = "text/markdown"
	MIMEHTML     = "text/html"
	MIMEPDF      = "application/pdf"
	MIMEDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionFormats = map[string]string{
	".txt":      MIMEPlain,
	".text":     MIMEPlain,
	".md":       MIMEMarkdown,
	".markdown": MIMEMarkdown,
	".html":     MIMEHTML,
	".htm":      MIMEHTML,
	".pdf":      MIMEPDF,
	".docx":     MIMEDocx,
}

// DetectFormat resolves a document's format from its content type, falling back to
// the file extension. Unknown formats are returned as given so the caller can report them.
func DetectFormat(name, contentType string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mediaType {
			case MIMEPlain, MIMEMarkdown, MIMEHTML, MIMEPDF, MIMEDocx:
				return mediaType
			}
		}
	}
	if format, ok := extensionFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return format
	}
	if contentType != "" {
		return contentType
	}
	return strings.ToLower(filepath.Ext(name))
}

// ExtractDocumentText returns the text of a job posting document. HTML keeps its
// headings and lists as markdown.
func ExtractDocumentText(data []byte, format string) (string, error) {
	switch format {
	case MIMEPlain, MIMEMarkdown:
		return string(data), nil

	case MIMEHTML:
		text, err := fetch.PostingText(string(data), fetch.PlatformUnknown)
		if err != nil {
			return "", &ExtractionError{Format: "html", Cause: err}
		}
		return text, nil

	case MIMEPDF:
		return extractPDFText(data)

	case MIMEDocx:
		return extractDocxText(data)

	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

func extractPDFText(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}

	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Cause: fmt.Errorf("page %d: %w", i, err)}
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	return docxPlainText(doc.Editable().GetContent()), nil
}

var docxParagraphEnd = strings.NewReplacer("</w:p>", "\n", "<w:br/>", "\n", "<w:tab/>", " ")

// docxPlainText strips WordprocessingML markup, keeping one line per paragraph
func docxPlainText(xml string) string {
	xml = docxParagraphEnd.Replace(xml)

	var sb strings.Builder
	inTag := false
	for _, r := range xml {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return html.UnescapeString(sb.String())
}
