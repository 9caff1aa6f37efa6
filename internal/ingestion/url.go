package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/job-match-analyzer/internal/fetch"
)

// URLOptions configures IngestFromURL
type URLOptions struct {
	// Fetcher serves repeated URLs from cache; nil fetches directly
	Fetcher *fetch.Fetcher
	// UseBrowser falls back to a headless browser for SPA pages with too little content
	UseBrowser bool
}

// IngestFromURL fetches a job posting page and returns its cleaned text with metadata.
// Structured JobPosting data embedded in the page wins; otherwise platform-specific
// selectors pick the description, which is kept as markdown.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	logger := slog.With(slog.String("url", urlStr), slog.String("platform", string(platform)))

	pageHTML, err := download(ctx, urlStr, opts.Fetcher, logger)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	textContent, err := extractPosting(pageHTML, platform)
	if err != nil {
		return "", nil, err
	}

	rendered := false
	if opts.UseBrowser && fetch.NeedsRender(textContent) {
		logger.Debug("content too short, falling back to browser rendering",
			slog.Int("chars", len(textContent)), slog.Int("min", fetch.MinContentLength))

		browserHTML, browserErr := fetch.Render(ctx, urlStr, fetch.DefaultRenderTimeout)
		if browserErr != nil {
			// Keep the HTTP content
			logger.Warn("browser rendering failed", slog.Any("error", browserErr))
		} else if browserText, err := extractPosting(browserHTML, platform); err == nil {
			textContent = browserText
			rendered = true
		}
	}

	cleanedText := CleanText(textContent)
	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Source = SourceURL
	metadata.ContentType = MIMEHTML
	metadata.Platform = string(platform)
	metadata.Rendered = rendered

	return cleanedText, metadata, nil
}

func download(ctx context.Context, urlStr string, fetcher *fetch.Fetcher, logger *slog.Logger) (string, error) {
	if fetcher == nil {
		page, err := fetch.Get(ctx, urlStr, nil)
		if err != nil {
			return "", err
		}
		logger.Debug("fetched posting", slog.Int("bytes", len(page.HTML)))
		return page.HTML, nil
	}
	page, cached, err := fetcher.Get(ctx, urlStr)
	if err != nil {
		return "", err
	}
	logger.Debug("fetched posting", slog.Int("bytes", len(page.HTML)), slog.Bool("from_cache", cached))
	return page.HTML, nil
}

func extractPosting(pageHTML string, platform fetch.Platform) (string, error) {
	text, err := fetch.PostingText(pageHTML, platform)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	return text, nil
}
