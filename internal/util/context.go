package util

import (
	"context"
	"sync"
	"time"
)

// Context keys.
type ctxKey string

const (
	ctxKeyRequestID   ctxKey = "request_id"
	ctxKeyStartTime   ctxKey = "start_time"
	ctxKeyRule        ctxKey = "rule"
	ctxKeyBackend     ctxKey = "backend"
	ctxKeyRuleTracker ctxKey = "rule_tracker"
)

// RuleTracker records the matched rule name for a single request.
// Outer middleware installs a tracker before routing happens; the
// proxy writes the rule name once matching completes. Context values
// set deeper in the handler chain are not visible to the installer
// after the handler returns, so the tracker is a shared mutable cell.
type RuleTracker struct {
	mu   sync.Mutex
	name string
}

// Set records the matched rule name.
func (t *RuleTracker) Set(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
}

// Name returns the recorded rule name, or "" if no rule matched.
func (t *RuleTracker) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// ContextWithRuleTracker adds a rule tracker to the context.
func ContextWithRuleTracker(ctx context.Context, t *RuleTracker) context.Context {
	return context.WithValue(ctx, ctxKeyRuleTracker, t)
}

// RuleTrackerFromContext extracts the rule tracker from context.
func RuleTrackerFromContext(ctx context.Context) *RuleTracker {
	if t, ok := ctx.Value(ctxKeyRuleTracker).(*RuleTracker); ok {
		return t
	}
	return nil
}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithStartTime adds a start time to the context.
func ContextWithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKeyStartTime, t)
}

// StartTimeFromContext extracts the start time from context.
func StartTimeFromContext(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ctxKeyStartTime).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// ContextWithRule adds the matched rule name to the context.
func ContextWithRule(ctx context.Context, rule string) context.Context {
	return context.WithValue(ctx, ctxKeyRule, rule)
}

// RuleFromContext extracts the matched rule name from context.
func RuleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRule).(string); ok {
		return v
	}
	return ""
}

// ContextWithBackend adds the backend name to the context.
func ContextWithBackend(ctx context.Context, backend string) context.Context {
	return context.WithValue(ctx, ctxKeyBackend, backend)
}

// BackendFromContext extracts the backend name from context.
func BackendFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyBackend).(string); ok {
		return v
	}
	return ""
}
