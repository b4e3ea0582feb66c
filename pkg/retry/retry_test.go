package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/screeningscheduler/backend/pkg/retry"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDoWithLog(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		logged := 0

		err := retry.DoWithLog(context.Background(), fastConfig(5), "db", func() error {
			calls++
			if calls < 3 {
				return errors.New("not ready")
			}
			return nil
		}, func(attempt int, err error, nextDelay time.Duration) {
			logged++
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 2, logged)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		cause := errors.New("down")

		err := retry.Do(context.Background(), fastConfig(3), func() error {
			calls++
			return cause
		})

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := retry.Do(ctx, fastConfig(3), func() error {
			return nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
