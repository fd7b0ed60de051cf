// Package router implements the path-based routing and rewrite engine
// of the edge gateway.
//
// A declarative rule list is compiled once, at startup or on reload,
// into an immutable RuleSet ordered by pattern specificity. Per
// request, the RuleSet is evaluated in a single pass: the first
// matching rule wins, its rewrite template (if any) is applied to the
// request path, and a forwarding decision is returned. Rules without a
// rewrite template forward the matched path byte-identical, which is
// what keeps static-asset traffic uncorrupted.
//
// The active RuleSet is held in a Table, an atomically swapped
// snapshot: routing calls already in flight complete against a
// consistent rule set, never a partially reloaded one.
package router
