package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	failed atomic.Int32
}

func (m *countingMetrics) IncQueueUnitsFailed() { m.failed.Add(1) }

func newStarted(t *testing.T, opts ...Option) *Queue {
	t.Helper()
	q := New("test", opts...)
	q.Start()
	t.Cleanup(q.Stop)
	return q
}

func TestQueue_RunsInOrder(t *testing.T) {
	q := newStarted(t)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	require.NoError(t, Do(context.Background(), q, func() {}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestQueue_UnitsNeverOverlap(t *testing.T) {
	q := newStarted(t)

	var running atomic.Int32
	var overlapped atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = q.Post(func() {
					if running.Add(1) > 1 {
						overlapped.Store(true)
					}
					time.Sleep(50 * time.Microsecond)
					running.Add(-1)
				})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, Do(context.Background(), q, func() {}))
	assert.False(t, overlapped.Load())
}

func TestCall_ReturnsValue(t *testing.T) {
	q := newStarted(t)

	v, err := Call(q, func() int { return 42 }).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCall_PanicResolvesFuture(t *testing.T) {
	m := &countingMetrics{}
	q := newStarted(t, WithMetrics(m))

	_, err := Call(q, func() int { panic("boom") }).Wait(context.Background())
	require.ErrorIs(t, err, ErrUnitPanicked)
	assert.Equal(t, int32(1), m.failed.Load())

	// The worker keeps going after a failed unit.
	v, err := Call(q, func() string { return "ok" }).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestCall_WaitHonoursContext(t *testing.T) {
	q := newStarted(t)
	release := make(chan struct{})
	require.NoError(t, q.Post(func() { <-release }))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Call(q, func() int { return 1 }).Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_PostFromUnit(t *testing.T) {
	q := newStarted(t)
	done := make(chan struct{})
	require.NoError(t, q.Post(func() {
		_ = q.Post(func() { close(done) })
	}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested unit never ran")
	}
}

func TestQueue_StopDrainsThenRejects(t *testing.T) {
	q := New("test")
	q.Start()

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Post(func() { ran.Add(1) }))
	}
	q.Stop()
	assert.Equal(t, int32(10), ran.Load())

	assert.ErrorIs(t, q.Post(func() {}), ErrStopped)
	_, err := Call(q, func() int { return 1 }).Wait(context.Background())
	assert.ErrorIs(t, err, ErrStopped)

	// A second Stop returns immediately.
	q.Stop()
}

func TestQueue_StopWithoutStart(t *testing.T) {
	q := New("test")
	var ran atomic.Bool
	require.NoError(t, q.Post(func() { ran.Store(true) }))
	q.Stop()
	assert.True(t, ran.Load())
}

func TestQueue_TickWhenIdle(t *testing.T) {
	q := New("test", WithTickInterval(10*time.Millisecond))
	ticks := make(chan struct{}, 16)
	q.OnTick(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	q.Start()
	t.Cleanup(q.Stop)

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatalf("tick %d never fired", i)
		}
	}
}

func TestQueue_TickWhenBusy(t *testing.T) {
	q := New("test", WithTickInterval(5*time.Millisecond))
	var ticks atomic.Int32
	q.OnTick(func() { ticks.Add(1) })
	q.Start()
	t.Cleanup(q.Stop)

	// Keep the queue saturated for a while; ticks still fire between units.
	deadline := time.Now().Add(60 * time.Millisecond)
	for time.Now().Before(deadline) {
		_ = q.Post(func() { time.Sleep(time.Millisecond) })
		time.Sleep(500 * time.Microsecond)
	}
	require.NoError(t, Do(context.Background(), q, func() {}))
	assert.Greater(t, ticks.Load(), int32(2))
}
