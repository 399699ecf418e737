package probe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Error variables for configuration loading
var (
	// ErrEntriesFileNotFound is returned when the entries file is missing
	ErrEntriesFileNotFound = errors.New("entries file not found")
	// ErrNoValidEntries is returned when parsing produced no usable entry
	ErrNoValidEntries = errors.New("no valid entries found in config file")
)

// Warning describes a config line that was ignored during parsing.
// Warnings count toward the partial-config exit classification.
type Warning struct {
	Line    int
	Text    string
	Message string
}

// String formats the warning the way it is logged.
func (w Warning) String() string {
	return fmt.Sprintf("line %d ignored, %s: %s", w.Line, w.Message, w.Text)
}

// digitPattern guards against versions with nothing to compare
var digitPattern = regexp.MustCompile(`\d`)

// ParseEntries reads the line-oriented entries format:
//
//	# comment
//	name=version
//	name=version;source=url;url=https://...;regex=Release\s+(\d+)
//
// Malformed lines are skipped with a warning and never abort parsing.
// Duplicate names keep the last definition, with a warning for the
// shadowed one.
func ParseEntries(r io.Reader) ([]Entry, []Warning, error) {
	var entries []Entry
	var warnings []Warning
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, found := strings.Cut(line, "=")
		if !found {
			warnings = append(warnings, Warning{lineno, line, "missing '='"})
			continue
		}
		name = strings.TrimSpace(name)

		version, meta, hasMeta := strings.Cut(rest, ";")
		version = strings.TrimSpace(version)

		if strings.Contains(version, "=") {
			warnings = append(warnings, Warning{lineno, line, "multiple '=' signs"})
			continue
		}
		if name == "" || version == "" {
			warnings = append(warnings, Warning{lineno, line, "empty name or version"})
			continue
		}
		if !digitPattern.MatchString(version) {
			warnings = append(warnings, Warning{lineno, line, "version has no digits"})
			continue
		}

		entry := Entry{Name: name, LocalVersion: version}
		if hasMeta {
			if err := applyLineOverrides(&entry, meta); err != nil {
				warnings = append(warnings, Warning{lineno, line, err.Error()})
				continue
			}
		}

		if prev, dup := index[name]; dup {
			warnings = append(warnings, Warning{lineno, line, "duplicate entry, replacing earlier definition"})
			entries[prev] = entry
			continue
		}
		index[name] = len(entries)
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, warnings, nil
}

// applyLineOverrides parses semicolon-delimited key=value metadata from an
// entry line into the entry.
func applyLineOverrides(entry *Entry, meta string) error {
	for _, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return fmt.Errorf("override %q is not key=value", part)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "source":
			source, err := ParseSource(value)
			if err != nil {
				return err
			}
			entry.Source = source
		case "url", "uri":
			entry.OverrideURL = value
		case "feed":
			entry.OverrideFeed = value
		case "regex":
			entry.OverrideRegex = value
		case "selector":
			entry.Selector = value
		case "xpath":
			entry.XPath = value
		default:
			return fmt.Errorf("unknown override key %q", key)
		}
	}
	return nil
}

// LoadEntriesFile parses an entries file from disk.
func LoadEntriesFile(path string) ([]Entry, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrEntriesFileNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open entries file: %w", err)
	}
	defer f.Close()

	entries, warnings, err := ParseEntries(f)
	if err != nil {
		return nil, warnings, err
	}
	if len(entries) == 0 {
		return nil, warnings, fmt.Errorf("%w: %s", ErrNoValidEntries, path)
	}
	return entries, warnings, nil
}

// Override is one probes.toml section, keyed by entry name. It carries
// the same fields as the semicolon line metadata but survives better for
// regexes with special characters.
type Override struct {
	Source   string `toml:"source,omitempty"`
	URL      string `toml:"url,omitempty"`
	Feed     string `toml:"feed,omitempty"`
	Regex    string `toml:"regex,omitempty"`
	Selector string `toml:"selector,omitempty"`
	XPath    string `toml:"xpath,omitempty"`
}

// LoadOverrides reads a probes.toml file mapping entry names to override
// sections. A missing file is not an error: overrides are optional.
func LoadOverrides(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}

	var overrides map[string]Override
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}
	return overrides, nil
}

// ApplyOverrides merges probes.toml sections into the entries. Fields the
// entry line already set stay untouched: the line is closer to the data
// and wins.
func ApplyOverrides(entries []Entry, overrides map[string]Override) error {
	for i := range entries {
		o, ok := overrides[entries[i].Name]
		if !ok {
			continue
		}
		e := &entries[i]
		if o.Source != "" && e.Source == SourceDistrowatch {
			source, err := ParseSource(o.Source)
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Name, err)
			}
			e.Source = source
		}
		if e.OverrideURL == "" {
			e.OverrideURL = o.URL
		}
		if e.OverrideFeed == "" {
			e.OverrideFeed = o.Feed
		}
		if e.OverrideRegex == "" {
			e.OverrideRegex = o.Regex
		}
		if e.Selector == "" {
			e.Selector = o.Selector
		}
		if e.XPath == "" {
			e.XPath = o.XPath
		}
	}
	return nil
}
