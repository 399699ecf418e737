package transport

import "context"

// LimitFetcher bounds the number of concurrent fetches through an
// underlying fetcher. Callers blocked on a slot still honor context
// cancellation.
type LimitFetcher struct {
	inner Fetcher
	sem   chan struct{}
}

// NewLimitFetcher wraps inner with a concurrency bound. Limits below 1
// are treated as 1.
func NewLimitFetcher(inner Fetcher, limit int) *LimitFetcher {
	if limit < 1 {
		limit = 1
	}
	return &LimitFetcher{
		inner: inner,
		sem:   make(chan struct{}, limit),
	}
}

// Fetch acquires a slot, delegates to the wrapped fetcher, and releases
// the slot when the fetch finishes.
func (l *LimitFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &FetchError{Kind: KindTimeout, Err: ctx.Err()}
	}
	defer func() { <-l.sem }()
	return l.inner.Fetch(ctx, url)
}

var _ Fetcher = (*LimitFetcher)(nil)
