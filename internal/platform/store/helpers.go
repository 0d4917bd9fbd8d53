package store

import (
	"context"
	"time"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
)

// Many runs sql and maps every row with scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []T
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rs.Err()
}

// Scalar reads the first column of the first row
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	err := q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// RetryTx runs fn in a transaction, retrying up to attempts times while the
// failure is transient contention (serialization failure, deadlock).
func RetryTx(ctx context.Context, tx TxRunner, attempts int, fn func(q RowQuerier) error) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := 25 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		if err = tx.Tx(ctx, fn); err == nil || !perr.IsRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
