package router

import (
	"sort"
	"sync/atomic"

	"github.com/Denyme24/edgegw/internal/config"
)

// Decision is the forwarding decision for a single request: the
// matched rule, the path to forward, and the backend target. Produced
// once per request; immutable.
type Decision struct {
	Rule         *Rule
	ResolvedPath string
	TargetHost   string
	TargetPort   int
}

// RuleSet is an immutable, precedence-ordered sequence of compiled
// rules. It is safe for unbounded concurrent read access; a reload
// builds a new RuleSet rather than mutating an active one.
type RuleSet struct {
	rules []*Rule
}

// Compile compiles a rule specification list against the known
// backends into an ordered RuleSet. Any invalid rule rejects the whole
// set: compile-time errors must never reach the per-request path.
func Compile(specs []config.RuleSpec, backends []config.Backend) (*RuleSet, error) {
	byName := make(map[string]config.Backend, len(backends))
	for _, b := range backends {
		byName[b.Name] = b
	}

	rules := make([]*Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := compileRule(spec, byName)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	// Stable sort keeps declaration order among equal ranks, which is
	// the first-declared-wins tie-break.
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Rank > rules[j].Rank
	})

	return &RuleSet{rules: rules}, nil
}

// CompileConfig compiles the rule set of a full gateway configuration.
func CompileConfig(cfg *config.GatewayConfig) (*RuleSet, error) {
	return Compile(cfg.Rules, cfg.Backends)
}

// Route evaluates the rule set against a request path and returns the
// forwarding decision for the first matching rule, or ok=false when no
// rule matches. The method is unused for matching and accepted only so
// callers hand over the full request identity; the caller maps a
// no-match outcome to its own no-route response.
//
// Route is a pure function of (rule set, path): it performs no I/O,
// takes no locks, and never fails.
func (rs *RuleSet) Route(method, rawPath string) (Decision, bool) {
	_ = method

	for _, rule := range rs.rules {
		matched, captures := rule.Matcher.Match(rawPath)
		if !matched {
			continue
		}

		resolved := rawPath
		if rule.Template != nil {
			resolved = rule.Template.Expand(captures)
		}

		return Decision{
			Rule:         rule,
			ResolvedPath: resolved,
			TargetHost:   rule.Backend.Host,
			TargetPort:   rule.Backend.Port,
		}, true
	}

	return Decision{}, false
}

// Rules returns the rules in evaluation order.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Table holds the active RuleSet behind an atomic pointer. Swapping in
// a freshly compiled set is the only state transition: in-flight
// routing calls complete against the snapshot they loaded, never a
// half-updated one.
type Table struct {
	active  atomic.Pointer[RuleSet]
	metrics *Metrics
}

// TableOption is a functional option for configuring the table.
type TableOption func(*Table)

// WithTableMetrics sets the metrics recorded by Route.
func WithTableMetrics(m *Metrics) TableOption {
	return func(t *Table) {
		t.metrics = m
	}
}

// NewTable creates a table with the given initial rule set.
func NewTable(rs *RuleSet, opts ...TableOption) *Table {
	t := &Table{}
	for _, opt := range opts {
		opt(t)
	}
	t.Swap(rs)
	return t
}

// Load returns the active rule set snapshot.
func (t *Table) Load() *RuleSet {
	return t.active.Load()
}

// Swap atomically replaces the active rule set.
func (t *Table) Swap(rs *RuleSet) {
	t.active.Store(rs)
	if t.metrics != nil {
		t.metrics.SetActiveRules(rs.Len())
		t.metrics.RecordSwap()
	}
}

// Route routes against the active snapshot and records match metrics.
func (t *Table) Route(method, rawPath string) (Decision, bool) {
	decision, ok := t.Load().Route(method, rawPath)

	if t.metrics != nil {
		if !ok {
			t.metrics.RecordNoRoute()
		} else {
			t.metrics.RecordMatch(decision.Rule.Name)
			if !decision.Rule.PassThrough() {
				t.metrics.RecordRewrite(decision.Rule.Name)
			}
		}
	}

	return decision, ok
}
