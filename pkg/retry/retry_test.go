package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	expected := errors.New("still down")
	calls := 0
	err := NewRetrier(fastConfig(2)).Do(context.Background(), func() error {
		calls++
		return expected
	})

	assert.ErrorIs(t, err, expected)
	assert.Equal(t, 3, calls, "one attempt plus two retries")
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	expected := errors.New("bad request")
	calls := 0
	err := NewRetrier(fastConfig(5)).Do(context.Background(), func() error {
		calls++
		return Permanent(fmt.Errorf("status 400: %w", expected))
	})

	assert.ErrorIs(t, err, expected)
	assert.Equal(t, "status 400: bad request", err.Error())
	assert.Equal(t, 1, calls)
}

func TestRetry_PermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestRetry_ContextCancelled(t *testing.T) {
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := NewRetrier(cfg).Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("temporary error")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
