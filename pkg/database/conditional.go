package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	pkgerrors "harbor-control/pkg/errors"
)

// RetryPolicy bounds how often a write is retried on lock contention.
// Attempt n failing sleeps Backoff*n before attempt n+1.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy three attempts, 50ms linear backoff.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond}

// Guard is the row predicate of a conditional update.
type Guard struct {
	Where string
	Args  []interface{}
}

// ConditionalUpdate is a compare-and-set write: Changes are applied only to
// rows matching Guard. Zero affected rows means the guard no longer held.
type ConditionalUpdate struct {
	Guard   Guard
	Changes map[string]interface{}
}

// UpdateFunc performs one attempt of a write and reports affected rows.
type UpdateFunc func(ctx context.Context) (int64, error)

// RetryOnLock runs fn until it succeeds, fails with a non-lock error, or the
// policy is exhausted. Exhaustion wraps pkgerrors.ErrStorageLocked.
func RetryOnLock(ctx context.Context, policy RetryPolicy, fn UpdateFunc) (int64, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		affected, err := fn(ctx)
		if err == nil {
			return affected, nil
		}
		if !IsLockError(err) {
			return 0, err
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, policy.Backoff*time.Duration(attempt)); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w after %d attempts: %v", pkgerrors.ErrStorageLocked, attempts, lastErr)
}

// IsLockError reports whether err is a transient lock condition of the store.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// lock_not_available, deadlock_detected
		return pgErr.Code == "55P03" || pgErr.Code == "40P01"
	}

	return strings.Contains(strings.ToLower(err.Error()), "database is locked")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
