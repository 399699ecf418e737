// Package vercmp compares upstream version strings against locally
// recorded ones.
package vercmp

import (
	"strconv"
	"strings"
)

// Result is the outcome of comparing a local version against a remote one.
type Result int

const (
	// Equal means both versions describe the same release
	Equal Result = iota
	// RemoteNewer means the remote version is newer than the local one
	RemoteNewer
	// LocalNewer means the local version is ahead of the remote one
	LocalNewer
	// Incomparable means at least one side could not be tokenized
	Incomparable
)

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Equal:
		return "equal"
	case RemoteNewer:
		return "remote-newer"
	case LocalNewer:
		return "local-newer"
	default:
		return "incomparable"
	}
}

// tokenize splits a version string into dot/dash-separated components.
// Returns nil when the string yields no component carrying a digit,
// which marks the version as incomparable.
func tokenize(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-'
	})
	hasNumeric := false
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			hasNumeric = true
			break
		}
	}
	if !hasNumeric {
		return nil
	}
	return parts
}

// compareComponent compares a single pair of version components.
// Numeric components compare numerically, everything else lexically.
func compareComponent(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Compare compares a local version string against a remote one.
// A version with more components is newer than a strict prefix of it,
// so "1.2" is older than "1.2.1".
func Compare(local, remote string) Result {
	lv := tokenize(local)
	rv := tokenize(remote)
	if lv == nil || rv == nil {
		return Incomparable
	}

	n := len(lv)
	if len(rv) < n {
		n = len(rv)
	}
	for i := 0; i < n; i++ {
		switch compareComponent(lv[i], rv[i]) {
		case -1:
			return RemoteNewer
		case 1:
			return LocalNewer
		}
	}

	// Shared components equal: the longer version wins.
	switch {
	case len(lv) < len(rv):
		return RemoteNewer
	case len(lv) > len(rv):
		return LocalNewer
	default:
		return Equal
	}
}
