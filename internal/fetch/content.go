package fetch

import (
	"encoding/json"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// PostingText turns a posting page into markdown. An embedded schema.org
// JobPosting wins; otherwise the platform's selectors pick the description from
// the page body.
func PostingText(html string, p Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	if text, ok := jobPostingLD(doc); ok {
		return text, nil
	}
	return mainMarkdown(doc, p)
}

func mainMarkdown(doc *goquery.Document, p Platform) (string, error) {
	doc.Find(strings.Join(p.NoiseSelectors(), ", ")).Remove()

	content := doc.Find("body")
	for _, sel := range p.ContentSelectors() {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("failed to render content: %w", err)
	}
	return toMarkdown(fragment)
}

// toMarkdown converts an HTML fragment to trimmed markdown
func toMarkdown(fragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

type ldPosting struct {
	Type               any    `json:"@type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
}

// jobPostingLD returns the first usable schema.org JobPosting on the page as
// markdown headed by its title and company.
func jobPostingLD(doc *goquery.Document) (string, bool) {
	var text string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, posting := range decodeLD([]byte(s.Text())) {
			if t, ok := posting.render(); ok {
				text = t
				return false
			}
		}
		return true
	})
	return text, text != ""
}

func (p ldPosting) render() (string, bool) {
	if !hasType(p.Type, "JobPosting") || p.Description == "" {
		return "", false
	}
	body, err := toMarkdown(p.Description)
	if err != nil || body == "" {
		return "", false
	}

	var header []string
	if p.Title != "" {
		header = append(header, "Job Title: "+p.Title)
	}
	if p.HiringOrganization.Name != "" {
		header = append(header, "Company: "+p.HiringOrganization.Name)
	}
	if len(header) == 0 {
		return body, true
	}
	return strings.Join(header, "\n") + "\n\n" + body, true
}

// decodeLD accepts a single object, an array or an @graph wrapper.
func decodeLD(raw []byte) []ldPosting {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}

	var out []ldPosting
	switch v := probe.(type) {
	case []any:
		_ = json.Unmarshal(raw, &out)
	case map[string]any:
		if _, ok := v["@graph"]; ok {
			var graph struct {
				Graph []ldPosting `json:"@graph"`
			}
			_ = json.Unmarshal(raw, &graph)
			return graph.Graph
		}
		var one ldPosting
		if json.Unmarshal(raw, &one) == nil {
			out = append(out, one)
		}
	}
	return out
}

func hasType(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, _ := item.(string); s == want {
				return true
			}
		}
	}
	return false
}
