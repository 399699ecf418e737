package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/mmcdole/gofeed"

	"github.com/butrejp/disprobe/internal/transport"
)

// Resolver turns an entry's configuration into raw content or a typed
// failure. One implementation exists per source kind.
type Resolver interface {
	// Fetch performs one attempt against the resolver's source.
	Fetch(ctx context.Context, entry *Entry) FetchAttempt
}

// failureKind maps a transport error to an outcome error kind.
func failureKind(err error) ErrorKind {
	var fe *transport.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case transport.KindTimeout:
			return ErrKindTimeout
		case transport.KindBlocked:
			return ErrKindBlocked
		case transport.KindConnRefused:
			return ErrKindConnRefused
		case transport.KindRenderError:
			return ErrKindRender
		default:
			return ErrKindHTTP
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	return ErrKindHTTP
}

// itemBlockPattern pulls raw item/entry blocks out of feed text that
// gofeed could not parse
var itemBlockPattern = regexp.MustCompile(`(?is)<(?:item|entry)[\s>].*?</(?:item|entry)\s*>`)

// RSSResolver fetches the entry's effective feed and exposes the newest
// item's title and description as extraction content. Preferred first
// attempt: cheap and fast compared to rendering a page.
type RSSResolver struct {
	fetcher transport.Fetcher
}

// NewRSSResolver creates an RSS resolver over the given HTTP capability.
func NewRSSResolver(fetcher transport.Fetcher) *RSSResolver {
	return &RSSResolver{fetcher: fetcher}
}

// Fetch retrieves and parses the feed. A response that parses as neither
// RSS nor Atom and carries no feed markers counts as a NotFound failure,
// which drives fallback the same way a transport error does.
func (r *RSSResolver) Fetch(ctx context.Context, entry *Entry) FetchAttempt {
	attempt := FetchAttempt{Source: SourceRSS}

	feedURL := entry.FeedURL()
	if feedURL == "" {
		attempt.Err = ErrKindNotFound
		return attempt
	}

	raw, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		attempt.Err = failureKind(err)
		return attempt
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil || len(feed.Items) == 0 {
		// Unparseable or item-less feed. Salvage only item/entry block
		// text; handing the whole document to extraction would let the
		// version regex match markup like the XML prolog's version="1.0".
		blocks := itemBlockPattern.FindAll(raw, -1)
		if len(blocks) == 0 {
			attempt.Err = ErrKindNotFound
			return attempt
		}
		attempt.Content = bytes.Join(blocks, []byte("\n"))
		return attempt
	}

	item := newestItem(feed.Items)
	attempt.Content = []byte(item.Title + "\n" + item.Description)
	attempt.Link = item.Link
	return attempt
}

// newestItem picks the most recently published item. A dated item always
// beats an undated one; a feed with no timestamps at all keeps the first
// item.
func newestItem(items []*gofeed.Item) *gofeed.Item {
	newest := items[0]
	for _, item := range items[1:] {
		if item.PublishedParsed == nil {
			continue
		}
		if newest.PublishedParsed == nil || item.PublishedParsed.After(*newest.PublishedParsed) {
			newest = item
		}
	}
	return newest
}

// URLResolver fetches the entry's effective URL and returns the page
// content verbatim for extraction.
type URLResolver struct {
	fetcher transport.Fetcher
}

// NewURLResolver creates a direct-URL resolver over the given HTTP capability.
func NewURLResolver(fetcher transport.Fetcher) *URLResolver {
	return &URLResolver{fetcher: fetcher}
}

// Fetch retrieves the page.
func (r *URLResolver) Fetch(ctx context.Context, entry *Entry) FetchAttempt {
	attempt := FetchAttempt{Source: SourceURL}

	url := entry.PageURL()
	if url == "" {
		attempt.Err = ErrKindNotFound
		return attempt
	}

	raw, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		attempt.Err = failureKind(err)
		return attempt
	}
	attempt.Content = raw
	attempt.Link = url
	return attempt
}

// CatalogResolver renders the entry's catalog page in a browser and
// optionally narrows the document to the text of a CSS-selected or
// XPath-selected element before extraction. Slower and heavier than the
// other resolvers; only invoked when they fail. A nil renderer means
// browser use is disabled and every fetch fails immediately.
type CatalogResolver struct {
	renderer transport.Renderer
}

// NewCatalogResolver creates a catalog resolver over the given render
// capability. Pass nil to run in no-browser mode.
func NewCatalogResolver(renderer transport.Renderer) *CatalogResolver {
	return &CatalogResolver{renderer: renderer}
}

// Fetch renders the page and applies any configured narrowing.
func (r *CatalogResolver) Fetch(ctx context.Context, entry *Entry) FetchAttempt {
	attempt := FetchAttempt{Source: SourceDistrowatch}

	if r.renderer == nil {
		attempt.Err = ErrKindBrowserDisabled
		return attempt
	}

	url := entry.PageURL()
	if url == "" {
		attempt.Err = ErrKindNotFound
		return attempt
	}

	raw, err := r.renderer.Render(ctx, url)
	if err != nil {
		attempt.Err = failureKind(err)
		return attempt
	}

	if entry.Selector != "" || entry.XPath != "" {
		narrowed, err := narrowHTML(raw, entry.Selector, entry.XPath)
		if err != nil {
			attempt.Err = ErrKindNotFound
			return attempt
		}
		raw = narrowed
	}

	attempt.Content = raw
	attempt.Link = url
	return attempt
}

// narrowHTML reduces a rendered document to the text of the first element
// matched by a CSS selector, or by an XPath expression when no selector
// is given.
func narrowHTML(content []byte, selector, xpath string) ([]byte, error) {
	if selector != "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			return nil, fmt.Errorf("no element found matching selector %q", selector)
		}
		return []byte(strings.TrimSpace(selection.First().Text())), nil
	}

	doc, err := htmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	node, err := htmlquery.Query(doc, xpath)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("no node found matching xpath %q", xpath)
	}
	return []byte(strings.TrimSpace(htmlquery.InnerText(node))), nil
}
