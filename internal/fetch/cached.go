package fetch

import (
	"context"
	"log/slog"

	"github.com/jonathan/job-match-analyzer/internal/cache"
)

const pageNamespace = "page"

// Fetcher is Get behind the shared cache. Only successful fetches are stored,
// so an outage on a job board is retried on the next request.
type Fetcher struct {
	store   cache.Store
	options *Options
}

// NewFetcher returns a Fetcher. A nil store disables caching and nil options
// use the defaults.
func NewFetcher(store cache.Store, options *Options) *Fetcher {
	return &Fetcher{store: store, options: options}
}

// Get returns the page for rawURL and whether it came from the cache.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, bool, error) {
	key := cache.Key(pageNamespace, rawURL)
	if f.store != nil {
		if page, ok := cache.GetJSON[Page](ctx, f.store, key); ok {
			return &page, true, nil
		}
	}

	page, err := Get(ctx, rawURL, f.options)
	if err != nil {
		return nil, false, err
	}
	if f.store != nil {
		cache.SetJSON(ctx, f.store, key, *page)
		slog.Debug("cached page", slog.String("url", rawURL), slog.Int("bytes", len(page.HTML)))
	}
	return page, false, nil
}
