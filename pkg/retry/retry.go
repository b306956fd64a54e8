package retry

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

type permanentError struct {
	err error
}

func (p *permanentError) Error() string {
	return p.err.Error()
}

func (p *permanentError) Unwrap() error {
	return p.err
}

// Permanent marks err as not retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// OnError calls fn until it succeeds, returns a permanent error or the attempts are used
// up. onErr is called for every failed attempt and may be nil.
func OnError(ctx context.Context, attempts int, delay time.Duration, fn func() error, onErr func(attempt int, err error)) error {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
		if onErr != nil {
			onErr(i, err)
		}
	}
	return lastErr
}
