package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingTarget struct {
	calls atomic.Int32
}

func (c *countingTarget) Sweep(time.Time) int {
	c.calls.Add(1)
	return 1
}

func TestSweepWorker_Sweep(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Minute)
	_, _, err := store.Increment(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	w := NewSweepWorker(time.Minute, discard)
	w.Add("rate_limit", store)

	w.now = func() time.Time { return time.Now().Add(30 * time.Second) }
	assert.Equal(t, 0, w.sweep())
	assert.Equal(t, 1, store.Len())

	w.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, w.sweep())
	assert.Equal(t, 0, store.Len())
}

func TestSweepWorker_StartStopsOnCancel(t *testing.T) {
	target := &countingTarget{}
	w := NewSweepWorker(5*time.Millisecond, discard)
	w.Add("orders", target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSweepWorker_NoTargets(t *testing.T) {
	w := NewSweepWorker(time.Millisecond, discard)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker without targets should return immediately")
	}
}
