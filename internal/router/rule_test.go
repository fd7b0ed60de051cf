package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/util"
)

var testBackends = []config.Backend{
	{Name: "api", Host: "api", Port: 8000},
	{Name: "frontend", Host: "frontend", Port: 3000},
}

func TestCompile_LiteralRule(t *testing.T) {
	t.Parallel()

	rs, err := Compile([]config.RuleSpec{
		{Name: "frontend", Kind: config.PatternKindLiteral, Pattern: "/", Backend: "frontend"},
	}, testBackends)
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	rule := rs.Rules()[0]
	assert.Equal(t, "frontend", rule.Name)
	assert.True(t, rule.PassThrough())
	assert.Equal(t, "frontend", rule.Backend.Name)
}

func TestCompile_RegexRuleWithRewrite(t *testing.T) {
	t.Parallel()

	rs, err := Compile([]config.RuleSpec{
		{Name: "api", Kind: config.PatternKindRegex, Pattern: `/api(/|$)(.*)`, Rewrite: "/$2", Backend: "api"},
	}, testBackends)
	require.NoError(t, err)

	rule := rs.Rules()[0]
	assert.False(t, rule.PassThrough())
	assert.Equal(t, "api", rule.Backend.Name)
}

func TestCompile_EmptyLiteralPattern(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Pattern: "", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidPattern, cerr.Kind)
	assert.Equal(t, "bad", cerr.Rule)
}

func TestCompile_LiteralPatternWithoutLeadingSlash(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Pattern: "api", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidPattern, cerr.Kind)
}

func TestCompile_RewriteOnLiteralPattern(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Pattern: "/api", Rewrite: "/$1", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidCaptureReference, cerr.Kind)
}

func TestCompile_MalformedRegex(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Kind: config.PatternKindRegex, Pattern: "[invalid", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidPattern, cerr.Kind)
	assert.Error(t, errors.Unwrap(cerr))
}

func TestCompile_CaptureReferenceOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Kind: config.PatternKindRegex, Pattern: `/api(/|$)(.*)`, Rewrite: "/$3", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidCaptureReference, cerr.Kind)
	assert.Contains(t, cerr.Message, "group 3")
}

func TestCompile_GroupZeroReference(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "bad", Kind: config.PatternKindRegex, Pattern: `/api(/|$)(.*)`, Rewrite: "/$0", Backend: "api"},
	}, testBackends)

	var cerr *util.RuleCompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, util.InvalidCaptureReference, cerr.Kind)
	assert.Contains(t, cerr.Message, "group 0")
}

func TestCompile_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "orphan", Pattern: "/x", Backend: "missing"},
	}, testBackends)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCompile_OneBadRuleRejectsWholeSet(t *testing.T) {
	t.Parallel()

	_, err := Compile([]config.RuleSpec{
		{Name: "good", Pattern: "/ok", Backend: "api"},
		{Name: "bad", Kind: config.PatternKindRegex, Pattern: "(", Backend: "api"},
	}, testBackends)

	assert.Error(t, err)
}

func TestSpecificityRank(t *testing.T) {
	t.Parallel()

	// Any fixed prefix outranks the "/" catch-all.
	assert.Greater(t, specificityRank("/api"), specificityRank("/"))
	assert.Greater(t, specificityRank("/a"), specificityRank("/"))

	// Longer prefixes outrank shorter ones.
	assert.Greater(t, specificityRank("/api/v2"), specificityRank("/api"))

	// A regex reduced to no fixed prefix still outranks the "/"
	// catch-all but ranks below every concrete prefix.
	assert.Greater(t, specificityRank(""), specificityRank("/"))
	assert.Less(t, specificityRank(""), specificityRank("/a"))
}

func TestRuleSet_Route_BareVariableRegexBeatsCatchAll(t *testing.T) {
	t.Parallel()

	rs, err := Compile([]config.RuleSpec{
		{Name: "catchall", Pattern: "/", Backend: "frontend"},
		{Name: "wildcard", Kind: config.PatternKindRegex, Pattern: `(.*)`, Backend: "api"},
	}, testBackends)
	require.NoError(t, err)

	decision, ok := rs.Route("GET", "/anything")
	require.True(t, ok)
	assert.Equal(t, "wildcard", decision.Rule.Name)
}
