// Package gateway assembles the routing table, middleware chain, and
// HTTP listener into a runnable gateway.
//
// The gateway owns one listener. Every request flows through the
// middleware chain into the reverse proxy, which consults the active
// rule set for a forwarding decision. Configuration reloads compile a
// fresh rule set and swap it in atomically; the listener and the
// middleware chain are never rebuilt at runtime.
package gateway
