package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	calls := 0
	embedBatch := func() error {
		calls++
		return nil
	}

	err := RetryWithBackoff(context.Background(), embedBatch, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "should succeed on first try")
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	calls := 0
	embedBatch := func() error {
		calls++
		if calls < 3 {
			return errors.New("429 too many requests")
		}
		return nil
	}

	err := RetryWithBackoff(context.Background(), embedBatch, 5, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "should succeed on third attempt")
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	calls := 0
	modelGone := errors.New("model not found: nomic-embed-text")
	embedBatch := func() error {
		calls++
		return modelGone
	}

	err := RetryWithBackoff(context.Background(), embedBatch, 3, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, modelGone, err, "should return the error from the last attempt")
	assert.Equal(t, 3, calls, "should attempt exactly maxAttempts times")
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	embedBatch := func() error {
		calls++
		if calls == 2 {
			cancel() // Cancel after second attempt
		}
		return errors.New("connection refused")
	}

	err := RetryWithBackoff(ctx, embedBatch, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.LessOrEqual(t, calls, 2, "should stop when context is canceled")
}

func TestRetryWithBackoff_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	embedBatch := func() error {
		calls++
		time.Sleep(30 * time.Millisecond) // Slow provider
		return errors.New("request timed out")
	}

	err := RetryWithBackoff(ctx, embedBatch, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "should return context.DeadlineExceeded")
	assert.LessOrEqual(t, calls, 3, "should stop when context times out")
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	calls := 0
	var delays []time.Duration
	lastTime := time.Now()

	embedBatch := func() error {
		calls++
		if calls > 1 {
			delays = append(delays, time.Since(lastTime))
		}
		lastTime = time.Now()
		if calls < 4 {
			return errors.New("503 service unavailable")
		}
		return nil
	}

	err := RetryWithBackoff(context.Background(), embedBatch, 5, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)

	require.Len(t, delays, 3, "should have 3 delays")

	// Allow some tolerance for timing variance
	assert.Greater(t, delays[1], delays[0], "second delay should be greater than first")
	assert.Greater(t, delays[2], delays[1], "third delay should be greater than second")
}

func TestRetryWithBackoff_ZeroMaxAttempts(t *testing.T) {
	calls := 0
	embedBatch := func() error {
		calls++
		return errors.New("unreachable")
	}

	err := RetryWithBackoff(context.Background(), embedBatch, 0, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidMaxAttempts)
	assert.Equal(t, 0, calls, "should not attempt with maxAttempts=0")
}

func TestRetryWithBackoff_NegativeMaxAttempts(t *testing.T) {
	calls := 0
	embedBatch := func() error {
		calls++
		return errors.New("unreachable")
	}

	err := RetryWithBackoff(context.Background(), embedBatch, -1, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidMaxAttempts)
	assert.Equal(t, 0, calls, "should not attempt with negative maxAttempts")
}
