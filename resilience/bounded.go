package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrDeadlineExceeded is returned when a bounded call does not finish
// within its deadline.
var ErrDeadlineExceeded = errors.New("resilience: deadline exceeded")

// RunBounded executes fn in its own goroutine and waits for completion,
// context cancellation, or deadline expiry, whichever comes first.
//
// On expiry the caller gets ErrDeadlineExceeded immediately; the
// goroutine is NOT joined and may keep running and holding resources
// until fn returns on its own. fn has no cancellation hook, so true
// reclamation would require isolating the call in a separately killable
// process. Callers must treat the deadline as advisory to themselves
// only.
func RunBounded[T any](ctx context.Context, deadline time.Duration, fn func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	// Buffered so the goroutine can always deliver and exit, even after
	// the caller has given up.
	done := make(chan outcome, 1)
	go func() {
		value, err := fn()
		done <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	var zero T
	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-timer.C:
		return zero, ErrDeadlineExceeded
	}
}
