package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralMatcher_ExactMatch(t *testing.T) {
	t.Parallel()

	m := NewLiteralMatcher("/api")

	matched, captures := m.Match("/api")
	assert.True(t, matched)
	assert.Nil(t, captures)
}

func TestLiteralMatcher_PrefixAtSegmentBoundary(t *testing.T) {
	t.Parallel()

	m := NewLiteralMatcher("/api")

	matched, _ := m.Match("/api/todos")
	assert.True(t, matched)

	// "/apiv2" shares the byte prefix but not the segment boundary.
	matched, _ = m.Match("/apiv2")
	assert.False(t, matched)

	matched, _ = m.Match("/apiv2/things")
	assert.False(t, matched)
}

func TestLiteralMatcher_RootMatchesEverything(t *testing.T) {
	t.Parallel()

	m := NewLiteralMatcher("/")

	for _, path := range []string{"/", "/index.html", "/_next/static/chunk/abc.js", "/api/todos"} {
		matched, _ := m.Match(path)
		assert.True(t, matched, "path %q should match /", path)
	}
}

func TestLiteralMatcher_NoMatch(t *testing.T) {
	t.Parallel()

	m := NewLiteralMatcher("/api")

	matched, _ := m.Match("/todos")
	assert.False(t, matched)

	matched, _ = m.Match("/")
	assert.False(t, matched)
}

func TestLiteralMatcher_Accessors(t *testing.T) {
	t.Parallel()

	m := NewLiteralMatcher("/api")
	assert.Equal(t, "literal", m.Type())
	assert.Equal(t, "/api", m.Pattern())
}

func TestRegexMatcher_CaptureGroups(t *testing.T) {
	t.Parallel()

	m, err := NewRegexMatcher(`/api(/|$)(.*)`)
	require.NoError(t, err)

	matched, captures := m.Match("/api/todos")
	require.True(t, matched)
	require.Len(t, captures, 2)
	assert.Equal(t, "/", captures[0])
	assert.Equal(t, "todos", captures[1])
}

func TestRegexMatcher_EmptyCaptures(t *testing.T) {
	t.Parallel()

	m, err := NewRegexMatcher(`/api(/|$)(.*)`)
	require.NoError(t, err)

	// Bare "/api": both groups capture the empty string, but the
	// match itself succeeds.
	matched, captures := m.Match("/api")
	require.True(t, matched)
	require.Len(t, captures, 2)
	assert.Empty(t, captures[0])
	assert.Empty(t, captures[1])

	// Trailing slash: separator captures "/", suffix stays empty.
	matched, captures = m.Match("/api/")
	require.True(t, matched)
	assert.Equal(t, "/", captures[0])
	assert.Empty(t, captures[1])
}

func TestRegexMatcher_FullPathAnchoring(t *testing.T) {
	t.Parallel()

	m, err := NewRegexMatcher(`/api(/|$)(.*)`)
	require.NoError(t, err)

	matched, _ := m.Match("/apiv2/things")
	assert.False(t, matched)

	matched, _ = m.Match("/v1/api/todos")
	assert.False(t, matched)
}

func TestRegexMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewRegexMatcher("[invalid")
	assert.Error(t, err)
}

func TestRegexMatcher_NumCaptures(t *testing.T) {
	t.Parallel()

	m, err := NewRegexMatcher(`/api(/|$)(.*)`)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumCaptures())

	m, err = NewRegexMatcher(`/static/.*`)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumCaptures())
}

func TestRegexMatcher_Accessors(t *testing.T) {
	t.Parallel()

	m, err := NewRegexMatcher(`/api(/|$)(.*)`)
	require.NoError(t, err)
	assert.Equal(t, "regex", m.Type())
	assert.Equal(t, `/api(/|$)(.*)`, m.Pattern())
}

func TestFixedLiteralPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
	}{
		{`/api(/|$)(.*)`, "/api"},
		{`/static/.*`, "/static/"},
		{`/`, "/"},
		{`(.*)`, ""},
		{`/exact/path`, "/exact/path"},
		{`/files/[0-9]+`, "/files/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fixedLiteralPrefix(tt.pattern), "pattern %q", tt.pattern)
	}
}
