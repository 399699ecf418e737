// Package transport provides the fetch capabilities the probe core runs
// against: plain HTTP retrieval and rendered-page retrieval.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"
)

// Kind classifies a transport-level failure.
type Kind int

const (
	// KindTimeout means the request exceeded its deadline
	KindTimeout Kind = iota
	// KindHTTPError means the server answered with a non-success status
	KindHTTPError
	// KindBlocked means the server refused service (403 or 429)
	KindBlocked
	// KindConnRefused means the connection could not be established
	KindConnRefused
	// KindRenderError means page rendering failed
	KindRenderError
)

// String returns the wire name of the failure kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPError:
		return "http_error"
	case KindBlocked:
		return "blocked"
	case KindConnRefused:
		return "connection_refused"
	default:
		return "render_error"
	}
}

// FetchError is a typed transport failure.
type FetchError struct {
	Kind   Kind
	Status int // HTTP status when Kind is KindHTTPError or KindBlocked
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves raw content over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer retrieves content after executing a page's rendering logic,
// exposing text not present in the raw HTML.
type Renderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
}

// browser-like headers reduce server-side blocking on catalog sites
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.7",
	"Accept-Language": "en-US,en;q=0.9",
}

// HTTPFetcher fetches URLs with a shared HTTP client. Safe for concurrent
// use; the underlying client pools connections.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// NewHTTPFetcher creates a fetcher with a per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		headers: defaultHeaders,
	}
}

// SetHTTPClient sets a custom underlying HTTP client (useful for testing).
func (f *HTTPFetcher) SetHTTPClient(client *http.Client) {
	f.client = client
}

// Fetch retrieves the URL body. Failures come back as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindHTTPError, Err: err}
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: KindBlocked, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: KindHTTPError, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(err)
	}
	return body, nil
}

// classifyError maps a client error to a typed transport failure.
func classifyError(err error) *FetchError {
	if isTimeoutError(err) {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &FetchError{Kind: KindConnRefused, Err: err}
	}
	return &FetchError{Kind: KindHTTPError, Err: err}
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	type timeoutError interface {
		Timeout() bool
	}
	var te timeoutError
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
