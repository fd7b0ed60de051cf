package router

import (
	"strconv"
	"strings"
)

// Template is a compiled rewrite template. Positional references
// ($1, $2, ...) are resolved against the capture groups of the rule's
// pattern at request time. "$$" produces a literal dollar sign.
//
// By convention, patterns in this gateway encode two semantic groups:
// a separator group matching either "/" or end-of-string, and a suffix
// group greedily matching everything remaining. Both may capture the
// empty string; a template that expands to the empty string yields "/"
// because downstream handlers require a non-empty path.
type Template struct {
	raw      string
	segments []templateSegment
	maxRef   int
	zeroRef  bool
}

// templateSegment is either a literal chunk or a capture reference.
type templateSegment struct {
	literal string
	ref     int // 1-based capture index; 0 means literal
}

// ParseTemplate parses a rewrite template into its compiled form.
func ParseTemplate(raw string) *Template {
	t := &Template{raw: raw}

	var literal strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] != '$' {
			literal.WriteByte(raw[i])
			i++
			continue
		}

		// "$" at end of template is a literal dollar sign
		if i+1 >= len(raw) {
			literal.WriteByte('$')
			i++
			continue
		}

		next := raw[i+1]
		switch {
		case next == '$':
			literal.WriteByte('$')
			i += 2
		case next >= '0' && next <= '9':
			start := i + 1
			end := start
			for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
				end++
			}
			ref, _ := strconv.Atoi(raw[start:end])

			if literal.Len() > 0 {
				t.segments = append(t.segments, templateSegment{literal: literal.String()})
				literal.Reset()
			}
			t.segments = append(t.segments, templateSegment{ref: ref})
			if ref == 0 {
				t.zeroRef = true
			}
			if ref > t.maxRef {
				t.maxRef = ref
			}
			i = end
		default:
			literal.WriteByte('$')
			i++
		}
	}

	if literal.Len() > 0 {
		t.segments = append(t.segments, templateSegment{literal: literal.String()})
	}

	return t
}

// MaxRef returns the highest capture index the template references.
// The rule compiler rejects templates whose MaxRef exceeds the number
// of groups in their pattern.
func (t *Template) MaxRef() int {
	return t.maxRef
}

// ReferencesGroupZero reports whether the template contains a "$0"
// reference. Capture references are 1-based; the rule compiler rejects
// templates that reference group zero.
func (t *Template) ReferencesGroupZero() bool {
	return t.zeroRef
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.raw
}

// Expand substitutes capture references with the captured substrings.
// References beyond the capture slice expand to "" (the compiler
// guarantees this cannot happen for validated rules). An empty
// expansion result yields "/": an empty captured suffix must rewrite
// to the root path, never to an empty string.
func (t *Template) Expand(captures []string) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.ref == 0 {
			sb.WriteString(seg.literal)
			continue
		}
		if seg.ref <= len(captures) {
			sb.WriteString(captures[seg.ref-1])
		}
	}

	path := sb.String()
	if path == "" {
		return "/"
	}
	return path
}
