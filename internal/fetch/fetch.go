// Package fetch downloads job posting pages and reduces their HTML to the
// markdown the extractor reads.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds one HTTP fetch
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodyBytes caps how much of a page is read
	DefaultMaxBodyBytes = 5 << 20
	// DefaultUserAgent identifies the analyzer to job boards
	DefaultUserAgent = "Mozilla/5.0 (compatible; JobMatchAnalyzer/1.0)"
)

// Page is a downloaded posting page. It is what the page cache stores.
type Page struct {
	URL         string    `json:"url"`
	FinalURL    string    `json:"finalUrl,omitempty"`
	HTML        string    `json:"html"`
	ContentType string    `json:"contentType,omitempty"`
	StatusCode  int       `json:"statusCode"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Error describes which step of a fetch failed. Status is set when the server
// answered with a non-2xx code.
type Error struct {
	URL    string
	Op     string
	Status int
	Cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: %s: status %d", e.URL, e.Op, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Op, e.Cause)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Op)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options tune Get. The zero value is usable.
type Options struct {
	// Client overrides the HTTP client; Timeout is ignored when it is set
	Client       *http.Client
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if out.Client == nil {
		out.Client = &http.Client{Timeout: out.Timeout}
	}
	return out
}

// Get downloads rawURL. On a non-2xx answer the page is returned together with
// an *Error carrying the status.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if err := checkURL(rawURL); err != nil {
		return nil, &Error{URL: rawURL, Op: "invalid URL", Cause: err}
	}
	o := opts.withDefaults()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Op: "build request", Cause: err}
	}
	req.Header.Set("User-Agent", o.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Op: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, o.MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Op: "read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now().UTC(),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, &Error{URL: rawURL, Op: "unexpected response", Status: resp.StatusCode}
	}
	return page, nil
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
