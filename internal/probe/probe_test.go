package probe

import (
	"context"
	"time"

	"github.com/butrejp/disprobe/internal/transport"
)

// fakeFetcher serves scripted responses keyed by URL. Unknown URLs fail
// with a connection-refused equivalent.
type fakeFetcher struct {
	responses map[string]fakeResponse
}

type fakeResponse struct {
	body  string
	err   error
	delay time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, ok := f.responses[url]
	if !ok {
		return nil, &transport.FetchError{Kind: transport.KindConnRefused}
	}
	if resp.delay > 0 {
		select {
		case <-time.After(resp.delay):
		case <-ctx.Done():
			return nil, &transport.FetchError{Kind: transport.KindTimeout, Err: ctx.Err()}
		}
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return []byte(resp.body), nil
}

// fakeRenderer serves scripted rendered pages keyed by URL.
type fakeRenderer struct {
	pages map[string]fakeResponse
}

func (r *fakeRenderer) Render(ctx context.Context, url string) ([]byte, error) {
	resp, ok := r.pages[url]
	if !ok {
		return nil, &transport.FetchError{Kind: transport.KindRenderError}
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return []byte(resp.body), nil
}

// panicFetcher triggers the scheduler's entry-boundary recovery.
type panicFetcher struct{}

func (panicFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	panic("fetcher blew up")
}

const fedoraFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>DistroWatch.com: Fedora</title>
<item>
  <title>Distribution Release: Fedora 44</title>
  <link>https://distrowatch.com/?newsid=100</link>
  <description>Fedora 44 has been released.</description>
  <pubDate>Fri, 28 Aug 2026 10:00:00 +0000</pubDate>
</item>
<item>
  <title>Distribution Release: Fedora 43</title>
  <link>https://distrowatch.com/?newsid=90</link>
  <description>Fedora 43 has been released.</description>
  <pubDate>Mon, 03 Nov 2025 10:00:00 +0000</pubDate>
</item>
</channel></rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>DistroWatch.com: NewDistro</title>
<description>Custom distribution news feed</description>
</channel></rss>`

const versionlessFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>News</title>
<item>
  <title>Project news roundup</title>
  <link>https://example.org/news</link>
  <description>No release announcements this week.</description>
</item>
</channel></rss>`
