package util

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestContextStartTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.True(t, StartTimeFromContext(ctx).IsZero())

	now := time.Now()
	ctx = ContextWithStartTime(ctx, now)
	assert.Equal(t, now, StartTimeFromContext(ctx))
}

func TestContextRuleAndBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RuleFromContext(ctx))
	assert.Empty(t, BackendFromContext(ctx))

	ctx = ContextWithRule(ctx, "api")
	ctx = ContextWithBackend(ctx, "api-backend")
	assert.Equal(t, "api", RuleFromContext(ctx))
	assert.Equal(t, "api-backend", BackendFromContext(ctx))
}

func TestRuleTracker_VisibleAcrossContextBoundary(t *testing.T) {
	t.Parallel()

	tracker := &RuleTracker{}
	ctx := ContextWithRuleTracker(context.Background(), tracker)

	// A deeper handler derives its own context but shares the tracker.
	derived := ContextWithRule(ctx, "whatever")
	inner := RuleTrackerFromContext(derived)
	require.NotNil(t, inner)
	inner.Set("api")

	// The installer observes the name through its original handle.
	assert.Equal(t, "api", tracker.Name())
}

func TestRuleTrackerFromContext_Missing(t *testing.T) {
	t.Parallel()

	assert.Nil(t, RuleTrackerFromContext(context.Background()))
}

func TestRuleTracker_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	tracker := &RuleTracker{}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Set("rule")
			_ = tracker.Name()
		}()
	}
	wg.Wait()

	assert.Equal(t, "rule", tracker.Name())
}
