package usecase

import (
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"

	apperrors "stockroom/internal/errors"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
var backoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// withDeadlockRetry re-runs fn when MySQL reports a deadlock or lock wait
// timeout. Typed business errors (shortfall, validation, conflicts) are
// never retried here; retrying those is the caller's decision.
func withDeadlockRetry(maxAttempts int, onRetry func(attempt int), fn func() error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt < maxAttempts {
			base := backoffs[(attempt-1)%len(backoffs)]
			// Jitter: ±20% of the backoff base.
			jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			if onRetry != nil {
				onRetry(attempt)
			}
			continue
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
