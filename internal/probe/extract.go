package probe

import (
	"regexp"
	"strings"
)

// Default patterns per source, taken from what the upstream sites actually
// publish. Override regexes replace these per entry.
var (
	// rssTitlePattern pulls a dotted version out of a feed item title
	rssTitlePattern = regexp.MustCompile(`\d+(?:\.\d+)*`)
	// catalogPattern pulls the version from a DistroWatch release announcement
	catalogPattern = regexp.MustCompile(`Distribution Release:\s*[^\d\n]*?(\d+(?:\.\d+)*)`)
	// pagePattern pulls a generic dotted version from arbitrary page text
	pagePattern = regexp.MustCompile(`\d+(?:\.\d+)+`)
)

// defaultPattern returns the default extraction pattern for a source.
func defaultPattern(s Source) *regexp.Regexp {
	switch s {
	case SourceRSS:
		return rssTitlePattern
	case SourceURL:
		return pagePattern
	default:
		return catalogPattern
	}
}

// Extract applies a pattern to raw content and pulls a version string.
// With capture groups, the first non-empty captured group of the first
// match wins; without groups, the full match text is returned. The second
// return is false when nothing matched.
func Extract(content []byte, pattern *regexp.Regexp) (string, bool) {
	match := pattern.FindSubmatch(content)
	if match == nil {
		return "", false
	}
	if len(match) > 1 {
		for _, group := range match[1:] {
			if v := strings.TrimSpace(string(group)); v != "" {
				return v, true
			}
		}
		return "", false
	}
	return strings.TrimSpace(string(match[0])), true
}
