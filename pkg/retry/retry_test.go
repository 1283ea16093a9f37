package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	retries := 0

	err := Do(context.Background(), Policy{Retries: 2, BaseDelay: time.Millisecond}, isTransient,
		func(int, error) { retries++ },
		func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestDo_StopsAfterRetries(t *testing.T) {
	calls := 0

	err := Do(context.Background(), Policy{Retries: 2}, isTransient, nil, func() error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	err := Do(context.Background(), Policy{Retries: 5}, isTransient, nil, func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := Do(ctx, Policy{Retries: 5, BaseDelay: time.Second}, isTransient, nil, func() error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}
