package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Release: 3.18 stable"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != "Release: 3.18 stable" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchSendsHeaders(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotUA != defaultHeaders["User-Agent"] {
		t.Errorf("expected browser-like User-Agent, got %q", gotUA)
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Kind != KindHTTPError {
		t.Errorf("expected KindHTTPError, got %v", fe.Kind)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fe.Status)
	}
}

func TestFetchBlocked(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		fetcher := NewHTTPFetcher(5 * time.Second)
		_, err := fetcher.Fetch(context.Background(), server.URL)
		server.Close()

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("status %d: expected *FetchError, got %v", status, err)
		}
		if fe.Kind != KindBlocked {
			t.Errorf("status %d: expected KindBlocked, got %v", status, fe.Kind)
		}
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(50 * time.Millisecond)
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Kind != KindTimeout {
		t.Errorf("expected KindTimeout, got %v", fe.Kind)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	// Bind and immediately close to get a port with no listener.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), url)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Kind != KindConnRefused {
		t.Errorf("expected KindConnRefused, got %v", fe.Kind)
	}
}

func TestKindString(t *testing.T) {
	pairs := map[Kind]string{
		KindTimeout:     "timeout",
		KindHTTPError:   "http_error",
		KindBlocked:     "blocked",
		KindConnRefused: "connection_refused",
		KindRenderError: "render_error",
	}
	for k, want := range pairs {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
