package tavily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_AppliesDefaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	require.NotNil(t, r)
	assert.InDelta(t, DefaultRateLimit.RequestsPerSecond, float64(r.limiter.Limit()), 0.001)
	assert.Equal(t, DefaultRateLimit.BurstSize, r.limiter.Burst())
}

func TestRateLimiter_WaitWithinBurst(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 5})

	start := time.Now()
	for range 5 {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestRateLimiter_BackoffAfter429(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 5})
	r.RecordRateLimitError(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "backoff window outlives the context")
}

func TestRecordRateLimitError_DefaultWindow(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	r.RecordRateLimitError(0)

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	assert.Greater(t, time.Until(retryAt), 25*time.Second)
}
