package transport

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserRenderer renders pages in a headless browser and returns the
// resulting document HTML. A single exec allocator is shared across calls;
// each Render gets its own browser context, so concurrent use is safe.
type BrowserRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewBrowserRenderer creates a renderer with a per-page timeout.
func NewBrowserRenderer(timeout time.Duration) *BrowserRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(defaultHeaders["User-Agent"]),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserRenderer{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     timeout,
	}
}

// Render navigates to the URL and returns the rendered document HTML.
// Failures come back as *FetchError with KindTimeout or KindRenderError.
func (r *BrowserRenderer) Render(ctx context.Context, url string) ([]byte, error) {
	taskCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()

	// Honor cancellation of the caller's context.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if isTimeoutError(err) {
			return nil, &FetchError{Kind: KindTimeout, Err: err}
		}
		return nil, &FetchError{Kind: KindRenderError, Err: err}
	}
	return []byte(html), nil
}

// Close shuts down the shared browser allocator.
func (r *BrowserRenderer) Close() {
	r.allocCancel()
}
