// Package retry runs an operation a bounded number of times with an
// increasing delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds the number of attempts and the delay between them.
type Policy struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultPolicy is three attempts, starting at 500ms and doubling up to 5s.
var DefaultPolicy = Policy{
	Attempts:   3,
	Initial:    500 * time.Millisecond,
	Max:        5 * time.Second,
	Multiplier: 2,
}

// Delay returns the wait before attempt n+1, where n counts from 1.
func (p Policy) Delay(n int) time.Duration {
	d := float64(p.Initial)
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	for i := 1; i < n; i++ {
		d *= mult
	}
	if p.Max > 0 && time.Duration(d) > p.Max {
		return p.Max
	}
	return time.Duration(d)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or anything it wraps, was marked Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Sleep waits for d or until ctx is done. Tests replace it.
var Sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do calls fn until it succeeds, returns a Permanent error, the attempts are
// used up, or ctx is cancelled. onRetry, if non-nil, is told about every
// failed attempt that will be retried.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	n := 0
	for n < attempts {
		n++
		if err = fn(ctx); err == nil {
			return nil
		}
		if IsPermanent(err) || n == attempts {
			break
		}
		if onRetry != nil {
			onRetry(n, err)
		}
		if Sleep(ctx, p.Delay(n)) != nil {
			break
		}
	}
	return fmt.Errorf("giving up after %d attempt(s): %w", n, err)
}
