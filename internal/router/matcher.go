package router

import (
	"regexp"
	"strings"
)

// PathMatcher is the interface for path matching. Captures are
// positional: captures[0] corresponds to the pattern's first group.
type PathMatcher interface {
	Match(path string) (bool, []string)
	Type() string
	Pattern() string
}

// LiteralMatcher matches literal path prefixes at segment boundaries.
type LiteralMatcher struct {
	prefix string
}

// NewLiteralMatcher creates a new literal prefix matcher.
func NewLiteralMatcher(prefix string) *LiteralMatcher {
	return &LiteralMatcher{prefix: prefix}
}

// Match checks if the path equals the prefix or starts with prefix+"/".
// A prefix of "/" therefore matches every path.
func (m *LiteralMatcher) Match(path string) (matched bool, captures []string) {
	if path == m.prefix {
		return true, nil
	}
	if strings.HasSuffix(m.prefix, "/") {
		return strings.HasPrefix(path, m.prefix), nil
	}
	return strings.HasPrefix(path, m.prefix+"/"), nil
}

// Type returns the matcher type.
func (m *LiteralMatcher) Type() string {
	return "literal"
}

// Pattern returns the pattern.
func (m *LiteralMatcher) Pattern() string {
	return m.prefix
}

// RegexMatcher matches paths against a regular expression anchored at
// both ends, extracting capture groups positionally.
type RegexMatcher struct {
	pattern string
	regex   *regexp.Regexp
}

// NewRegexMatcher creates a new regex path matcher. The pattern is
// compiled to match the full path, regardless of whether it carries
// its own anchors.
func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	regex, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}

	return &RegexMatcher{
		pattern: pattern,
		regex:   regex,
	}, nil
}

// Match checks if the full path matches the regex. Capture groups may
// legitimately capture the empty string; a nil capture slice means the
// path did not match at all.
func (m *RegexMatcher) Match(path string) (matched bool, captures []string) {
	matches := m.regex.FindStringSubmatch(path)
	if matches == nil {
		return false, nil
	}
	return true, matches[1:]
}

// NumCaptures returns the number of capture groups in the pattern.
func (m *RegexMatcher) NumCaptures() int {
	return m.regex.NumSubexp()
}

// Type returns the matcher type.
func (m *RegexMatcher) Type() string {
	return "regex"
}

// Pattern returns the pattern.
func (m *RegexMatcher) Pattern() string {
	return m.pattern
}

// regexMeta holds the characters that end a fixed literal prefix when
// scanning a regex pattern left to right.
const regexMeta = `\.+*?()|[]{}^$`

// fixedLiteralPrefix returns the longest literal prefix of a regex
// pattern before any metacharacter. For "/api(/|$)(.*)" it returns
// "/api". Used to rank pattern specificity.
func fixedLiteralPrefix(pattern string) string {
	for i := 0; i < len(pattern); i++ {
		if strings.ContainsRune(regexMeta, rune(pattern[i])) {
			return pattern[:i]
		}
	}
	return pattern
}
