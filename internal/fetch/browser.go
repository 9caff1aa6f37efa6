package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// MinContentLength is the shortest description trusted from a plain fetch.
	// Anything shorter usually means the board renders client-side.
	MinContentLength = 500
	// DefaultRenderTimeout bounds a headless render
	DefaultRenderTimeout = 30 * time.Second
	// renderSettle is how long Render waits for the body to fill in
	renderSettle = 5 * time.Second
)

// NeedsRender reports whether text extracted from a plain fetch is too thin to use.
func NeedsRender(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

var renderOptions = append(chromedp.DefaultExecAllocatorOptions[:],
	chromedp.Flag("headless", true),
	chromedp.Flag("disable-gpu", true),
	chromedp.Flag("no-sandbox", true),
	chromedp.Flag("disable-dev-shm-usage", true),
)

// Render loads rawURL in headless Chrome and returns the rendered document.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, renderOptions...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(waitForContent),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: rawURL, Op: "render", Cause: err}
	}

	slog.Debug("rendered posting",
		slog.String("url", rawURL),
		slog.Int("bytes", len(html)),
		slog.Duration("took", time.Since(start)))
	return html, nil
}

// waitForContent polls until the body holds MinContentLength characters of
// text or renderSettle passes. Running out of patience is not an error; the
// page is taken as it is.
func waitForContent(ctx context.Context) error {
	expr := fmt.Sprintf("document.body && document.body.innerText.length >= %d", MinContentLength)
	_ = chromedp.Poll(expr, nil,
		chromedp.WithPollingInterval(250*time.Millisecond),
		chromedp.WithPollingTimeout(renderSettle),
	).Do(ctx)

	// Cookie walls hide the description on some boards
	_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`,
		chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
	return nil
}
