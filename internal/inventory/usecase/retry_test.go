package usecase

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stockroom/internal/errors"
)

func deadlockErr() error {
	return &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
}

func TestWithDeadlockRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := withDeadlockRetry(3, nil, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithDeadlockRetry_RetriesDeadlockThenSucceeds(t *testing.T) {
	calls := 0
	retries := 0
	err := withDeadlockRetry(3, func(attempt int) { retries++ }, func() error {
		calls++
		if calls < 3 {
			return deadlockErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestWithDeadlockRetry_RetriesLockWaitTimeout(t *testing.T) {
	calls := 0
	err := withDeadlockRetry(2, nil, func() error {
		calls++
		if calls == 1 {
			return &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithDeadlockRetry_DoesNotRetryBusinessErrors(t *testing.T) {
	calls := 0
	shortfall := apperrors.NewShortfallError(10, 7, 3)
	err := withDeadlockRetry(3, nil, func() error {
		calls++
		return shortfall
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, shortfall, err)
}

func TestWithDeadlockRetry_DoesNotRetryPlainErrors(t *testing.T) {
	calls := 0
	boom := errors.New("connection reset")
	err := withDeadlockRetry(3, nil, func() error {
		calls++
		return boom
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, boom, err)
}

func TestWithDeadlockRetry_ExhaustionReturnsDeadlockError(t *testing.T) {
	calls := 0
	err := withDeadlockRetry(3, nil, func() error {
		calls++
		return deadlockErr()
	})

	assert.Equal(t, 3, calls)
	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
}

func TestWithDeadlockRetry_WrappedDeadlockIsDetected(t *testing.T) {
	wrapped := apperrors.NewInternalError("update failed", deadlockErr())
	assert.True(t, isDeadlockError(wrapped))
}
