package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsOnce(t *testing.T) {
	lim := NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
	calls := 0
	boom := errors.New("boom")

	err := lim.Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 5.0, lim.CurrentLimit())
}

func TestRateLimitedHalves(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 20, 1, 0.5)

	err := lim.Do(context.Background(), func() error {
		return fmt.Errorf("search: %w", &StatusError{URL: "https://example", Code: 429})
	})
	require.Error(t, err)
	assert.Equal(t, 4.0, lim.CurrentLimit())
	assert.Equal(t, 4, lim.CurrentBurst())

	lim.RateLimited()
	lim.RateLimited()
	lim.RateLimited()
	assert.Equal(t, 1.0, lim.CurrentLimit())
}

func TestSuccessRaisesUpToMax(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 3, 1, 0.5)
	lim.Success()
	lim.Success()
	assert.Equal(t, 3.0, lim.CurrentLimit())
}

func TestSuccessHeldAfterOverload(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 10, 1, 0.5)
	lim.RateLimited()
	lim.Success()
	assert.Equal(t, 2.0, lim.CurrentLimit())
}

func TestDefaultClassifier(t *testing.T) {
	assert.True(t, DefaultClassifier(&StatusError{Code: 503}))
	assert.True(t, DefaultClassifier(&StatusError{Code: 429}))
	assert.False(t, DefaultClassifier(&StatusError{Code: 404}))
	assert.False(t, DefaultClassifier(errors.New("plain")))
}

func TestDoHonoursCancelledContext(t *testing.T) {
	lim := NewAdaptiveLimiter(1, 1, 1, 1, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// drain the single token so Wait has to block
	_ = lim.Do(context.Background(), func() error { return nil })

	called := false
	err := lim.Do(ctx, func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
}
