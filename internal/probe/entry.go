// Package probe resolves upstream versions for tracked distributions and
// classifies them against locally recorded versions.
package probe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Error variables for entry validation
var (
	// ErrMissingFeed is returned when an rss entry has no resolvable feed URL
	ErrMissingFeed = errors.New("rss source requires a feed URL")
	// ErrMissingURL is returned when a url entry has no resolvable URL
	ErrMissingURL = errors.New("url source requires a URL")
	// ErrInvalidRegex is returned when an override pattern does not compile
	ErrInvalidRegex = errors.New("invalid override regex")
	// ErrEmptyName is returned when an entry has no name
	ErrEmptyName = errors.New("entry name must not be empty")
	// ErrEmptyVersion is returned when an entry has no local version
	ErrEmptyVersion = errors.New("entry local version must not be empty")
)

// Source identifies the upstream data origin for an entry.
type Source int

const (
	// SourceDistrowatch resolves via the DistroWatch catalog (RSS first,
	// rendered page as fallback). This is the default.
	SourceDistrowatch Source = iota
	// SourceRSS resolves via an explicit RSS/Atom feed
	SourceRSS
	// SourceURL resolves via a direct page URL
	SourceURL
)

// String returns the config-file name of the source.
func (s Source) String() string {
	switch s {
	case SourceRSS:
		return "rss"
	case SourceURL:
		return "url"
	default:
		return "distrowatch"
	}
}

// ParseSource parses a source name from configuration text.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "distrowatch":
		return SourceDistrowatch, nil
	case "rss":
		return SourceRSS, nil
	case "url":
		return SourceURL, nil
	default:
		return SourceDistrowatch, fmt.Errorf("unknown source %q", s)
	}
}

const (
	distrowatchFeedURL = "https://distrowatch.com/news/distro/%s.xml"
	distrowatchPageURL = "https://distrowatch.com/table.php?distribution=%s"
)

// Entry is one tracked distribution. Entries are created once from parsed
// configuration and immutable thereafter.
type Entry struct {
	// Name is the unique key of the distribution within a run
	Name string
	// LocalVersion is the version recorded locally
	LocalVersion string
	// Source selects the upstream data origin
	Source Source
	// OverrideURL replaces the default page URL
	OverrideURL string
	// OverrideFeed replaces the default feed URL
	OverrideFeed string
	// OverrideRegex replaces the source-specific default pattern
	OverrideRegex string
	// Selector optionally narrows catalog HTML with a CSS selector
	Selector string
	// XPath optionally narrows catalog HTML with an XPath expression
	XPath string
}

// FeedURL returns the effective feed URL for the entry, or "" when none
// is resolvable.
func (e *Entry) FeedURL() string {
	if e.OverrideFeed != "" {
		return e.OverrideFeed
	}
	switch e.Source {
	case SourceRSS:
		// An rss entry may carry its feed in the url field.
		return e.OverrideURL
	case SourceDistrowatch:
		return fmt.Sprintf(distrowatchFeedURL, strings.ToLower(e.Name))
	}
	return ""
}

// PageURL returns the effective page URL for the entry.
func (e *Entry) PageURL() string {
	if e.OverrideURL != "" {
		return e.OverrideURL
	}
	if e.Source == SourceDistrowatch {
		return fmt.Sprintf(distrowatchPageURL, strings.ToLower(e.Name))
	}
	return ""
}

// Pattern returns the compiled override regex, or nil when the entry has
// none. Compilation failure is a validation-time error; callers that
// validated the entry first will never see an error here.
func (e *Entry) Pattern() (*regexp.Regexp, error) {
	if e.OverrideRegex == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?is)" + e.OverrideRegex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegex, err)
	}
	return re, nil
}

// Validate checks that the entry's declared source is resolvable and that
// any override pattern compiles. Validation failures are config errors and
// never abort the batch.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return ErrEmptyName
	}
	if e.LocalVersion == "" {
		return fmt.Errorf("entry %s: %w", e.Name, ErrEmptyVersion)
	}
	switch e.Source {
	case SourceRSS:
		if e.FeedURL() == "" {
			return fmt.Errorf("entry %s: %w", e.Name, ErrMissingFeed)
		}
	case SourceURL:
		if e.PageURL() == "" {
			return fmt.Errorf("entry %s: %w", e.Name, ErrMissingURL)
		}
	}
	if _, err := e.Pattern(); err != nil {
		return fmt.Errorf("entry %s: %w", e.Name, err)
	}
	return nil
}
