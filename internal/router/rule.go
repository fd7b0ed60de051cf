package router

import (
	"fmt"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/util"
)

// priorityFixedPrefix is the rank band for rules whose pattern carries
// a concrete literal prefix beyond "/". Rules in this band always
// outrank bare catch-alls; within the band, longer prefixes win.
const priorityFixedPrefix = 1000

// Rule is a compiled routing rule: an immutable pairing of a path
// matcher, an optional rewrite template, and a backend target.
type Rule struct {
	Name     string
	Kind     string
	Matcher  PathMatcher
	Template *Template
	Backend  config.Backend

	// Rank orders rules by pattern specificity. Higher ranks are
	// evaluated first; ties keep declaration order.
	Rank int
}

// PassThrough reports whether the rule forwards matched paths
// unmodified.
func (r *Rule) PassThrough() bool {
	return r.Template == nil
}

// compileRule compiles a single rule specification.
func compileRule(spec config.RuleSpec, backends map[string]config.Backend) (*Rule, error) {
	backend, ok := backends[spec.Backend]
	if !ok {
		return nil, util.NewConfigError(
			fmt.Sprintf("rule %s", spec.Name),
			fmt.Sprintf("unknown backend %q", spec.Backend),
		)
	}

	rule := &Rule{
		Name:    spec.Name,
		Kind:    spec.Kind,
		Backend: backend,
	}

	if spec.IsRegex() {
		if err := compileRegexRule(spec, rule); err != nil {
			return nil, err
		}
	} else {
		if err := compileLiteralRule(spec, rule); err != nil {
			return nil, err
		}
	}

	return rule, nil
}

// compileLiteralRule compiles a literal prefix rule.
func compileLiteralRule(spec config.RuleSpec, rule *Rule) error {
	if spec.Pattern == "" {
		return util.NewRuleCompileError(spec.Name, util.InvalidPattern,
			"literal pattern must not be empty")
	}
	if spec.Pattern[0] != '/' {
		return util.NewRuleCompileError(spec.Name, util.InvalidPattern,
			fmt.Sprintf("literal pattern %q must begin with /", spec.Pattern))
	}
	if spec.Rewrite != "" {
		return util.NewRuleCompileError(spec.Name, util.InvalidCaptureReference,
			"literal patterns define no capture groups")
	}

	rule.Kind = config.PatternKindLiteral
	rule.Matcher = NewLiteralMatcher(spec.Pattern)
	rule.Rank = specificityRank(spec.Pattern)
	return nil
}

// compileRegexRule compiles a regex capture rule and cross-validates
// its rewrite template.
func compileRegexRule(spec config.RuleSpec, rule *Rule) error {
	if spec.Pattern == "" {
		return util.NewRuleCompileError(spec.Name, util.InvalidPattern,
			"regex pattern must not be empty")
	}

	matcher, err := NewRegexMatcher(spec.Pattern)
	if err != nil {
		return util.NewRuleCompileErrorWithCause(spec.Name, util.InvalidPattern,
			fmt.Sprintf("regex pattern %q does not compile", spec.Pattern), err)
	}

	rule.Matcher = matcher
	rule.Rank = specificityRank(fixedLiteralPrefix(spec.Pattern))

	if spec.Rewrite != "" {
		tmpl := ParseTemplate(spec.Rewrite)
		if tmpl.ReferencesGroupZero() {
			return util.NewRuleCompileError(spec.Name, util.InvalidCaptureReference,
				fmt.Sprintf("rewrite %q references group 0; capture references are 1-based",
					spec.Rewrite))
		}
		if tmpl.MaxRef() > matcher.NumCaptures() {
			return util.NewRuleCompileError(spec.Name, util.InvalidCaptureReference,
				fmt.Sprintf("rewrite %q references group %d but pattern defines %d",
					spec.Rewrite, tmpl.MaxRef(), matcher.NumCaptures()))
		}
		rule.Template = tmpl
	}

	return nil
}

// specificityRank computes the total order over patterns from the
// fixed literal prefix. Patterns with a concrete prefix beyond "/"
// occupy the upper band, ranked by prefix length; a bare variable
// pattern with no fixed prefix sits just above the universal "/"
// catch-all, which always ranks lowest.
func specificityRank(prefix string) int {
	switch prefix {
	case "/":
		return 0
	case "":
		return 1
	}
	return priorityFixedPrefix + len(prefix)
}
