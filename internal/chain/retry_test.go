package chain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/chain"
)

var errNonRetryable = errors.New("non-retryable error")

func fastRetryConfig(maxAttempts int) chain.RetryConfig {
	return chain.RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	attempts := 0
	result, err := chain.Retry(context.Background(), func() (string, error) {
		attempts++
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, attempts)
}

func TestRetry_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	result, err := chain.RetryWithConfig(context.Background(), fastRetryConfig(3), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", chain.ErrRetryable
		}
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, attempts)
}

func TestRetry_NonRetryableError(t *testing.T) {
	attempts := 0

	_, err := chain.RetryWithConfig(context.Background(), fastRetryConfig(3), func() (string, error) {
		attempts++
		return "", errNonRetryable
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts) // Should not retry
}

func TestRetry_MaxAttempts(t *testing.T) {
	attempts := 0

	_, err := chain.RetryWithConfig(context.Background(), fastRetryConfig(3), func() (string, error) {
		attempts++
		return "", chain.ErrRetryable
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	require.ErrorIs(t, err, chain.ErrRetryable)
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	cfg := chain.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    time.Second,
	}
	_, err := chain.RetryWithConfig(ctx, cfg, func() (string, error) {
		attempts++
		return "", chain.ErrRetryable
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, attempts, 10)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, chain.IsRetryable(nil))
	assert.False(t, chain.IsRetryable(errNonRetryable))
	assert.True(t, chain.IsRetryable(chain.ErrRetryable))
	assert.True(t, chain.IsRetryable(chain.ErrRateLimited))
	assert.True(t, chain.IsRetryable(context.DeadlineExceeded))
	assert.True(t, chain.IsRetryable(chain.WrapRetryable(errNonRetryable)))
}

func TestWrapRetryable(t *testing.T) {
	assert.NoError(t, chain.WrapRetryable(nil))

	wrapped := chain.WrapRetryable(errNonRetryable)
	require.ErrorIs(t, wrapped, chain.ErrRetryable)
	require.ErrorIs(t, wrapped, errNonRetryable)
}
