package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBounded_ReturnsResult(t *testing.T) {
	got, err := RunBounded(context.Background(), time.Second, func() (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestRunBounded_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := RunBounded(context.Background(), time.Second, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunBounded_TimesOutWithoutJoining(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	_, err := RunBounded(context.Background(), 50*time.Millisecond, func() (int, error) {
		<-release
		return 42, nil
	})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.Less(t, elapsed, time.Second, "caller must return near the deadline, not wait for fn")
}

func TestRunBounded_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	release := make(chan struct{})
	defer close(release)

	_, err := RunBounded(ctx, time.Minute, func() (int, error) {
		<-release
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
